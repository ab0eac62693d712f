package corpus

import "errors"

// ErrNoData means a batch finished without a single usable row.
var ErrNoData = errors.New("no data collected")
