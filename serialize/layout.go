package serialize

const (
	LoOffset  = 0x000
	MidOffset = 0x100
	HiOffset  = 0x200

	OutputSize = 0x300
)
