package contract

// ExportRequest selects what to export: the listed ids when given,
// otherwise every record matching the search, in list order.
type ExportRequest struct {
	Format  string  `query:"format"`
	IDs     []int64 `query:"-"`
	Search  string  `query:"search"`
	OrderBy string  `query:"orderby"`
	Order   string  `query:"order"`
}

type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
	Records     int
}
