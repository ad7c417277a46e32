package errors

type Code string

const (
	CodeUnknown          Code = "UNKNOWN"
	CodeInternal         Code = "INTERNAL_ERROR"
	CodeConfigValidation Code = "CONFIG_VALIDATION_ERROR"
	CodeConfigReadError  Code = "CONFIG_READ_ERROR"
	CodeConfigParseError Code = "CONFIG_PARSE_ERROR"

	// Resolver codes
	CodeNotInitialized      Code = "NOT_INITIALIZED"
	CodeApplicationNotFound Code = "APPLICATION_NOT_FOUND"
	CodeResourceNotFound    Code = "RESOURCE_NOT_FOUND"
	CodeMetadataNotFound    Code = "METADATA_NOT_FOUND"
	CodeMalformedReference  Code = "MALFORMED_REFERENCE"
	CodeLaunchRejected      Code = "LAUNCH_REQUEST_REJECTED"

	// Registry backend codes
	CodeSnapshotReadError       Code = "SNAPSHOT_READ_ERROR"
	CodeSnapshotParseError      Code = "SNAPSHOT_PARSE_ERROR"
	CodeSnapshotValidationError Code = "SNAPSHOT_VALIDATION_ERROR"
	CodeRegistryError           Code = "REGISTRY_ERROR"
	CodeDeviceCommandError      Code = "DEVICE_COMMAND_ERROR"
	CodePlatformAPIError        Code = "PLATFORM_API_ERROR"
	CodePlatformAuthError       Code = "PLATFORM_AUTH_ERROR"
	CodeTimeout                 Code = "TIMEOUT_ERROR"
)

func (c Code) String() string {
	return string(c)
}
