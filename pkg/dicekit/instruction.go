package dicekit

// AccountMeta is an account attached to an instruction.
type AccountMeta struct {
	Address    Address
	IsSigner   bool
	IsWritable bool
}

// Instruction is one instruction of a transaction as seen by the program.
type Instruction struct {
	ProgramID Address
	Accounts  []AccountMeta
	Data      []byte
}
