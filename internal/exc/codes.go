package exc

const (
	CodeUnknownFatal                  = "R0000"
	CodeFileNotFound                  = "R0001"
	CodeUnsuportedFileSystemOperation = "R0002"
	CodePermissionDenied              = "R0003"
	CodeUnsupportedFileFormat         = "R0004"
	CodeUnexpectedEOF                 = "R0005"
	CodeUnexpectedToken               = "R0006"
	CodeUnexpectedCharacter           = "R0007"
	CodeInvalidNumber                 = "R0008"
	CodeIndentationMismatch           = "R0009"
	CodeReservedWord                  = "R0010"
	CodeUnterminatedText              = "R0011"
)

const (
	CodeEOF = "_EOF_"
)

var (
	defaultNonFatal = map[string]bool{}
)
