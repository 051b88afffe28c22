package types

// Keypair is one candidate account: the base32 public address and the
// 25-word recovery phrase derived from the private key.
type Keypair struct {
	Address  string
	Mnemonic string
}

// Match is a keypair whose address begins with the requested prefix.
// Serialized as one element of the output document.
type Match struct {
	Address  string `json:"address"`
	Mnemonic string `json:"mnemonic"`
}
