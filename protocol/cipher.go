package protocol

// Cipher produces the position-dependent keystream applied to every word
// after the header. The seed advances on every call, so words must be
// processed strictly in transfer order on both ends of the link.
//
// A Cipher is not safe for concurrent use.
type Cipher struct {
	seed uint32
	key  uint32
}

// NewCipher creates a keystream starting at seed for the given mode.
func NewCipher(seed uint32, mode Mode) *Cipher {
	return &Cipher{
		seed: seed,
		key:  mode.params().Key,
	}
}

// Encrypt masks data for the given byte position within the image and
// advances the keystream.
//
// position is the byte offset of the word from the start of the image; the
// mask includes -(position + LoadAddress) so identical words at different
// offsets encode differently.
func (c *Cipher) Encrypt(data, position uint32) uint32 {
	offset := ^(position + LoadAddress) + 1
	c.seed = c.seed*SeedMultiplier + 1
	return c.seed ^ data ^ offset ^ c.key
}

// Decrypt is the inverse of Encrypt for a cipher driven through the same
// sequence of positions.
func (c *Cipher) Decrypt(data, position uint32) uint32 {
	return c.Encrypt(data, position)
}

// Seed returns the current keystream seed.
func (c *Cipher) Seed() uint32 {
	return c.seed
}
