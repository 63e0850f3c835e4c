package types

const (
	// SubModuleName defines the ISMP module router name
	SubModuleName = "port"

	codespace = "ismp-" + SubModuleName
)
