package exported

const (
	// ModuleName is the name of the ISMP module
	ModuleName = "ismp"

	// StoreKey is the string store representation
	StoreKey = ModuleName

	// RouterKey is the msg router key for the ISMP module
	RouterKey = ModuleName
)
