package columnar

// Parquet-tagged row shapes written to the batch files §6 describes.
// Optional source-range columns are plain int64/int32 with a separate
// "has range" flag rather than parquet-go's optional-field pointers,
// since this package never round-trips these files back through Go (the
// store's COPY FROM reads them directly) and a flag column keeps the
// schema simpler than nullable columns would.

type directoryRow struct {
	ID             int64  `parquet:"name=id, type=INT64"`
	Path           string `parquet:"name=path, type=BYTE_ARRAY, convertedtype=UTF8"`
	AbsolutePath   string `parquet:"name=absolute_path, type=BYTE_ARRAY, convertedtype=UTF8"`
	RepositoryName string `parquet:"name=repository_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Name           string `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8"`
}

type fileRow struct {
	ID             int64  `parquet:"name=id, type=INT64"`
	Path           string `parquet:"name=path, type=BYTE_ARRAY, convertedtype=UTF8"`
	AbsolutePath   string `parquet:"name=absolute_path, type=BYTE_ARRAY, convertedtype=UTF8"`
	Language       string `parquet:"name=language, type=BYTE_ARRAY, convertedtype=UTF8"`
	Extension      string `parquet:"name=extension, type=BYTE_ARRAY, convertedtype=UTF8"`
	Name           string `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8"`
	RepositoryName string `parquet:"name=repository_name, type=BYTE_ARRAY, convertedtype=UTF8"`
}

type definitionRow struct {
	ID              int64  `parquet:"name=id, type=INT64"`
	FQN             string `parquet:"name=fqn, type=BYTE_ARRAY, convertedtype=UTF8"`
	ShortName       string `parquet:"name=short_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Kind            string `parquet:"name=kind, type=BYTE_ARRAY, convertedtype=UTF8"`
	PrimaryFilePath string `parquet:"name=primary_file_path, type=BYTE_ARRAY, convertedtype=UTF8"`
	StartByte       int64  `parquet:"name=start_byte, type=INT64"`
	EndByte         int64  `parquet:"name=end_byte, type=INT64"`
	StartLine       int32  `parquet:"name=start_line, type=INT32"`
	StartCol        int32  `parquet:"name=start_col, type=INT32"`
	EndLine         int32  `parquet:"name=end_line, type=INT32"`
	EndCol          int32  `parquet:"name=end_col, type=INT32"`
}

type importedSymbolRow struct {
	ID                int64  `parquet:"name=id, type=INT64"`
	ImportKind        string `parquet:"name=import_kind, type=BYTE_ARRAY, convertedtype=UTF8"`
	ImportPath        string `parquet:"name=import_path, type=BYTE_ARRAY, convertedtype=UTF8"`
	Name              string `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Alias             string `parquet:"name=alias, type=BYTE_ARRAY, convertedtype=UTF8"`
	DeclaringFilePath string `parquet:"name=declaring_file_path, type=BYTE_ARRAY, convertedtype=UTF8"`
	StartByte         int64  `parquet:"name=start_byte, type=INT64"`
	EndByte           int64  `parquet:"name=end_byte, type=INT64"`
	StartLine         int32  `parquet:"name=start_line, type=INT32"`
	StartCol          int32  `parquet:"name=start_col, type=INT32"`
	EndLine           int32  `parquet:"name=end_line, type=INT32"`
	EndCol            int32  `parquet:"name=end_col, type=INT32"`
}

type relationshipRow struct {
	SourceID        int64 `parquet:"name=source_id, type=INT64"`
	TargetID        int64 `parquet:"name=target_id, type=INT64"`
	Type            int32 `parquet:"name=type, type=INT32"`
	SourceStartByte int64 `parquet:"name=source_start_byte, type=INT64"`
	SourceEndByte   int64 `parquet:"name=source_end_byte, type=INT64"`
	SourceStartLine int32 `parquet:"name=source_start_line, type=INT32"`
	SourceEndLine   int32 `parquet:"name=source_end_line, type=INT32"`
	SourceStartCol  int32 `parquet:"name=source_start_col, type=INT32"`
	SourceEndCol    int32 `parquet:"name=source_end_col, type=INT32"`
	HasSourceRange  bool  `parquet:"name=has_source_range, type=BOOLEAN"`
}
