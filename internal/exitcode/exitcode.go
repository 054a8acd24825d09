package exitcode

const (
	Success         = 0
	UsageError      = 1
	ValidationError = 2
	LoadError       = 3
	MergeError      = 4
	CacheError      = 5
	ReportError     = 6
	ServeError      = 7
)
