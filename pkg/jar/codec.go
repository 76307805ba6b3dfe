package jar

// Codec transforms cookie values on their way into and out of the jar.
// Seal is applied before a value is stored, Open when it is read back.
type Codec interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}

// PlainCodec stores values unchanged.
type PlainCodec struct{}

func (PlainCodec) Seal(plaintext string) (string, error) { return plaintext, nil }
func (PlainCodec) Open(sealed string) (string, error)    { return sealed, nil }

var _ Codec = PlainCodec{}
