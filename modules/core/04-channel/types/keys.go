package types

const (
	// SubModuleName defines the ISMP request/response sub module name
	SubModuleName = "channel"

	codespace = "ismp-" + SubModuleName
)
