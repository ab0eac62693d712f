package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ErrorWithTrace annotates e with the caller's file and line. The original
// error stays reachable through errors.Is and errors.As.
func ErrorWithTrace(e error) error {
	if e == nil {
		return nil
	}
	_, file, line, _ := runtime.Caller(1)
	return fmt.Errorf("%s:%d\n\t%w", filepath.Base(file), line, e)
}

func FileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, ErrorWithTrace(err)
}
