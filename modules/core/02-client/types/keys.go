package types

const (
	// SubModuleName defines the ISMP consensus client sub module name
	SubModuleName = "consensus"

	// codespace keeps the registered errors apart from any other module named "consensus"
	codespace = "ismp-" + SubModuleName
)
