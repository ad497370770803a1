// Package protocol implements the fixed-layout wire records exchanged
// between chat clients and the server. Every record is a constant-size
// frame: a big-endian type tag, one explicit length per text field, and
// fixed-capacity field buffers. Constant frames keep the stream in sync
// even when a record turns out to be malformed, because the reader has
// always consumed a whole frame before rejecting it.
//
// The codec is stateless and makes no I/O decisions beyond frame shape.
package protocol

import (
	"encoding/binary"
	"fmt"
	"io"

	"campus-chat/errors"
)

// Record type tags. The values are part of the wire contract and must
// not be renumbered.
const (
	TypeLogin              uint32 = 0
	TypeRegister           uint32 = 1
	TypeMessage            uint32 = 2
	TypeRequestAllMessages uint32 = 3
	TypeJoinGroup          uint32 = 4
	TypePrintMessage       uint32 = 5
	TypeExit               uint32 = 99
	TypeAck                uint32 = 200
	TypeError              uint32 = 404
)

// PayloadCapacity bounds every text field carried on the wire.
const PayloadCapacity = 256

// EndOfMessages is the sentinel body that terminates a message history
// stream of PRINT_MESSAGE records.
const EndOfMessages = "END_OF_MESSAGES"

const (
	requestFrameSize  = 8 + PayloadCapacity
	responseFrameSize = 12 + 2*PayloadCapacity
)

// Request is a client-to-server record: a type tag plus one delimited
// text payload whose sub-fields depend on the tag (see parse.go).
type Request struct {
	Type    uint32
	Payload string
}

// Response is a server-to-client record. Name is only meaningful for
// PRINT_MESSAGE records; ERROR records carry their diagnostic in Body
// and ACK records are empty.
type Response struct {
	Type uint32
	Name string
	Body string
}

// WriteRequest encodes one request frame. It fails only when the
// payload exceeds PayloadCapacity, which is a caller bug rather than
// a runtime condition.
func WriteRequest(w io.Writer, r Request) error {
	if len(r.Payload) > PayloadCapacity {
		return fmt.Errorf("%w: request payload is %d bytes", errors.ErrPayloadTooLarge, len(r.Payload))
	}
	var frame [requestFrameSize]byte
	binary.BigEndian.PutUint32(frame[0:4], r.Type)
	binary.BigEndian.PutUint32(frame[4:8], uint32(len(r.Payload)))
	copy(frame[8:], r.Payload)
	_, err := w.Write(frame[:])
	return err
}

// ReadRequest decodes the next request frame. Transport failures and
// end-of-stream are returned untouched so the caller can distinguish a
// closed connection from a malformed record, which is reported as
// errors.ErrMalformedRequest.
func ReadRequest(r io.Reader) (Request, error) {
	var frame [requestFrameSize]byte
	if _, err := io.ReadFull(r, frame[:]); err != nil {
		return Request{}, err
	}
	tag := binary.BigEndian.Uint32(frame[0:4])
	length := binary.BigEndian.Uint32(frame[4:8])
	if !validRequestTag(tag) {
		return Request{}, fmt.Errorf("%w: unknown type tag %d", errors.ErrMalformedRequest, tag)
	}
	if length > PayloadCapacity {
		return Request{}, fmt.Errorf("%w: declared length %d exceeds capacity %d",
			errors.ErrMalformedRequest, length, PayloadCapacity)
	}
	return Request{Type: tag, Payload: string(frame[8 : 8+length])}, nil
}

// WriteResponse encodes one response frame. As with WriteRequest, an
// oversized field is a precondition violation on the caller's side.
func WriteResponse(w io.Writer, r Response) error {
	if len(r.Name) > PayloadCapacity || len(r.Body) > PayloadCapacity {
		return fmt.Errorf("%w: response fields are %d and %d bytes",
			errors.ErrPayloadTooLarge, len(r.Name), len(r.Body))
	}
	var frame [responseFrameSize]byte
	binary.BigEndian.PutUint32(frame[0:4], r.Type)
	binary.BigEndian.PutUint32(frame[4:8], uint32(len(r.Name)))
	binary.BigEndian.PutUint32(frame[8:12], uint32(len(r.Body)))
	copy(frame[12:], r.Name)
	copy(frame[12+PayloadCapacity:], r.Body)
	_, err := w.Write(frame[:])
	return err
}

// ReadResponse decodes the next response frame.
func ReadResponse(r io.Reader) (Response, error) {
	var frame [responseFrameSize]byte
	if _, err := io.ReadFull(r, frame[:]); err != nil {
		return Response{}, err
	}
	tag := binary.BigEndian.Uint32(frame[0:4])
	nameLen := binary.BigEndian.Uint32(frame[4:8])
	bodyLen := binary.BigEndian.Uint32(frame[8:12])
	if !validResponseTag(tag) {
		return Response{}, fmt.Errorf("%w: unknown type tag %d", errors.ErrMalformedRequest, tag)
	}
	if nameLen > PayloadCapacity || bodyLen > PayloadCapacity {
		return Response{}, fmt.Errorf("%w: declared lengths %d and %d exceed capacity %d",
			errors.ErrMalformedRequest, nameLen, bodyLen, PayloadCapacity)
	}
	return Response{
		Type: tag,
		Name: string(frame[12 : 12+nameLen]),
		Body: string(frame[12+PayloadCapacity : 12+PayloadCapacity+bodyLen]),
	}, nil
}

func validRequestTag(tag uint32) bool {
	switch tag {
	case TypeLogin, TypeRegister, TypeMessage, TypeRequestAllMessages, TypeJoinGroup, TypeExit:
		return true
	}
	return false
}

func validResponseTag(tag uint32) bool {
	switch tag {
	case TypeMessage, TypePrintMessage, TypeAck, TypeError:
		return true
	}
	return false
}
