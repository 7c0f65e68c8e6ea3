package cpu

// instruction is the decoded view of a 32-bit MIPS-I word: every field a
// LR33300 encoding can carry, computed once at fetch time rather than
// re-masked at every use site.
type instruction struct {
	word   uint32
	opcode uint32 // bits 31..26
	rs     uint32 // bits 25..21
	rt     uint32 // bits 20..16
	rd     uint32 // bits 15..11
	shamt  uint32 // bits 10..6
	funct  uint32 // bits 5..0
	imm16  uint16 // bits 15..0
	target uint32 // bits 25..0
}

func decode(word uint32) instruction {
	return instruction{
		word:   word,
		opcode: word >> 26,
		rs:     (word >> 21) & 0x1F,
		rt:     (word >> 16) & 0x1F,
		rd:     (word >> 11) & 0x1F,
		shamt:  (word >> 6) & 0x1F,
		funct:  word & 0x3F,
		imm16:  uint16(word),
		target: word & 0x03FFFFFF,
	}
}
