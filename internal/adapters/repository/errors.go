package repository

import "errors"

// Sentinel kinds for dataset loading errors.
var (
	ErrLoadDataset   = errors.New("load dataset failed")
	ErrMissingColumn = errors.New("missing csv column")
	ErrMalformedRow  = errors.New("malformed csv row")
	ErrStoreClosed   = errors.New("store closed")
	ErrImportDataset = errors.New("import dataset failed")
)
