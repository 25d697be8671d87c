package reader

// Options configures how sheets are turned into tables.
type Options struct {
	// UseHeaderRow treats the first row of each sheet as column names.
	// If nil, defaults to true.
	UseHeaderRow *bool
	// InferColumnTypes types each column from its cell contents.
	// If nil, defaults to true. When false every value is read as text.
	InferColumnTypes *bool
}

// DefaultOptions returns default read options.
func DefaultOptions() Options {
	return Options{}
}

// ShouldUseHeaderRow returns whether the first row holds column names.
func (o Options) ShouldUseHeaderRow() bool {
	if o.UseHeaderRow != nil {
		return *o.UseHeaderRow
	}
	return true
}

// ShouldInferColumnTypes returns whether column kinds are inferred.
func (o Options) ShouldInferColumnTypes() bool {
	if o.InferColumnTypes != nil {
		return *o.InferColumnTypes
	}
	return true
}

// Bool returns a pointer to b, for filling Options fields.
func Bool(b bool) *bool {
	return &b
}
