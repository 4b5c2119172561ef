package logging

// Standardized field names for structured logging.
// These constants ensure consistency across the application's log output,
// making logs easier to parse, filter, and analyze.
const (
	FieldFile       = "file_path"
	FieldBucket     = "bucket"
	FieldRuleColumn = "rule_column"
	FieldRecordKey  = "record_field"
	FieldReason     = "reason"
	FieldOperation  = "operation"
	FieldError      = "error"
	FieldCount      = "count"
	FieldDirective  = "directive"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
)
