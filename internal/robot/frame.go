package robot

// FrameTerminator ends every power frame on the wire.
const FrameTerminator = '\n'

// EncodeFrame builds the wire frame 0x00 0x00 <left> <right> '\n'.
func EncodeFrame(left, right byte) []byte {
	return []byte{0, 0, left, right, FrameTerminator}
}
