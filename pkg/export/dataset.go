package export

// Dataset defines tabular export content. Rows are aligned with Headers.
type Dataset struct {
	Headers []string
	Rows    [][]string
}
