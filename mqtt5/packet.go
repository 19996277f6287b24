package mqtt5

import (
	"github.com/axmq/mqttwire/buffer"
	"github.com/axmq/mqttwire/wire"
)

// Packet type constants, the high nibble of a 5.0 fixed header's
// first byte.
const (
	typeConnect     = 0x01
	typeConnAck     = 0x02
	typePublish     = 0x03
	typePubAck      = 0x04
	typePubRec      = 0x05
	typePubRel      = 0x06
	typePubComp     = 0x07
	typeSubscribe   = 0x08
	typeSubAck      = 0x09
	typeUnsubscribe = 0x0A
	typeUnsubAck    = 0x0B
	typePingReq     = 0x0C
	typePingResp    = 0x0D
	typeDisconnect  = 0x0E
	typeAuth        = 0x0F
)

// Packet is the sum type of every 5.0 control packet a decoder can
// produce.
type Packet struct {
	Connect     *Connect
	ConnAck     *ConnAck
	Publish     *Publish
	PubAck      *PubAck
	PubRec      *PubRec
	PubRel      *PubRel
	PubComp     *PubComp
	Subscribe   *Subscribe
	SubAck      *SubAck
	Unsubscribe *Unsubscribe
	UnsubAck    *UnsubAck
	PingReq     *PingReq
	PingResp    *PingResp
	Disconnect  *Disconnect
	Auth        *Auth
}

// Decode dispatches on header's packet type and flags and decodes the
// matching packet from body, exactly as mqtt3.Decode does for 3.1.1.
func Decode(header wire.FixedHeader, body *buffer.Shared) (Packet, error) {
	flags := header.Flags()
	switch header.PacketType() {
	case typeConnect:
		c, err := DecodeConnectRest(body)
		if err != nil {
			return Packet{}, err
		}
		return Packet{Connect: &c}, checkTrailingGarbage(body)
	case typeConnAck:
		c, err := DecodeConnAck(body)
		if err != nil {
			return Packet{}, err
		}
		return Packet{ConnAck: &c}, checkTrailingGarbage(body)
	case typePublish:
		p, err := DecodePublish(flags, body)
		if err != nil {
			return Packet{}, err
		}
		return Packet{Publish: &p}, nil
	case typePubAck:
		p, err := DecodePubAck(body)
		if err != nil {
			return Packet{}, err
		}
		return Packet{PubAck: &p}, checkTrailingGarbage(body)
	case typePubRec:
		p, err := DecodePubRec(body)
		if err != nil {
			return Packet{}, err
		}
		return Packet{PubRec: &p}, checkTrailingGarbage(body)
	case typePubRel:
		if flags != 0x02 {
			return Packet{}, wire.ErrUnrecognizedPacket
		}
		p, err := DecodePubRel(body)
		if err != nil {
			return Packet{}, err
		}
		return Packet{PubRel: &p}, checkTrailingGarbage(body)
	case typePubComp:
		p, err := DecodePubComp(body)
		if err != nil {
			return Packet{}, err
		}
		return Packet{PubComp: &p}, checkTrailingGarbage(body)
	case typeSubscribe:
		if flags != 0x02 {
			return Packet{}, wire.ErrUnrecognizedPacket
		}
		s, err := DecodeSubscribe(body)
		if err != nil {
			return Packet{}, err
		}
		return Packet{Subscribe: &s}, checkTrailingGarbage(body)
	case typeSubAck:
		s, err := DecodeSubAck(body)
		if err != nil {
			return Packet{}, err
		}
		return Packet{SubAck: &s}, checkTrailingGarbage(body)
	case typeUnsubscribe:
		if flags != 0x02 {
			return Packet{}, wire.ErrUnrecognizedPacket
		}
		u, err := DecodeUnsubscribe(body)
		if err != nil {
			return Packet{}, err
		}
		return Packet{Unsubscribe: &u}, checkTrailingGarbage(body)
	case typeUnsubAck:
		u, err := DecodeUnsubAck(body)
		if err != nil {
			return Packet{}, err
		}
		return Packet{UnsubAck: &u}, checkTrailingGarbage(body)
	case typePingReq:
		if flags != 0x00 || header.RemainingLength != 0 {
			return Packet{}, wire.ErrUnrecognizedPacket
		}
		return Packet{PingReq: &PingReq{}}, nil
	case typePingResp:
		if flags != 0x00 || header.RemainingLength != 0 {
			return Packet{}, wire.ErrUnrecognizedPacket
		}
		return Packet{PingResp: &PingResp{}}, nil
	case typeDisconnect:
		if flags != 0x00 {
			return Packet{}, wire.ErrUnrecognizedPacket
		}
		d, err := DecodeDisconnect(body)
		if err != nil {
			return Packet{}, err
		}
		return Packet{Disconnect: &d}, checkTrailingGarbage(body)
	case typeAuth:
		if flags != 0x00 {
			return Packet{}, wire.ErrUnrecognizedPacket
		}
		a, err := DecodeAuth(body)
		if err != nil {
			return Packet{}, err
		}
		return Packet{Auth: &a}, checkTrailingGarbage(body)
	default:
		return Packet{}, wire.ErrUnrecognizedPacket
	}
}

func checkTrailingGarbage(body *buffer.Shared) error {
	if !body.IsEmpty() {
		return wire.ErrTrailingGarbage
	}
	return nil
}

func (p Packet) fixedHeaderParts() (packetType, flags byte) {
	switch {
	case p.Connect != nil:
		return typeConnect, 0x00
	case p.ConnAck != nil:
		return typeConnAck, 0x00
	case p.Publish != nil:
		return typePublish, p.Publish.Flags()
	case p.PubAck != nil:
		return typePubAck, 0x00
	case p.PubRec != nil:
		return typePubRec, 0x00
	case p.PubRel != nil:
		return typePubRel, 0x02
	case p.PubComp != nil:
		return typePubComp, 0x00
	case p.Subscribe != nil:
		return typeSubscribe, 0x02
	case p.SubAck != nil:
		return typeSubAck, 0x00
	case p.Unsubscribe != nil:
		return typeUnsubscribe, 0x02
	case p.UnsubAck != nil:
		return typeUnsubAck, 0x00
	case p.PingReq != nil:
		return typePingReq, 0x00
	case p.PingResp != nil:
		return typePingResp, 0x00
	case p.Disconnect != nil:
		return typeDisconnect, 0x00
	case p.Auth != nil:
		return typeAuth, 0x00
	default:
		return 0, 0
	}
}

// Encode writes p's fixed header followed by its body, computing the
// remaining length with a ByteCounter pass before writing to dst for
// real.
func (p Packet) Encode(dst wire.Writer) error {
	packetType, flags := p.fixedHeaderParts()

	var counter wire.ByteCounter
	if err := p.encodeBody(&counter); err != nil {
		return err
	}
	if err := wire.EncodeFixedHeader(dst, packetType, flags, uint32(counter.N)); err != nil {
		return err
	}
	return p.encodeBody(dst)
}

func (p Packet) encodeBody(dst wire.Writer) error {
	switch {
	case p.Connect != nil:
		return p.Connect.Encode(dst)
	case p.ConnAck != nil:
		return p.ConnAck.Encode(dst)
	case p.Publish != nil:
		return p.Publish.Encode(dst)
	case p.PubAck != nil:
		return p.PubAck.Encode(dst)
	case p.PubRec != nil:
		return p.PubRec.Encode(dst)
	case p.PubRel != nil:
		return p.PubRel.Encode(dst)
	case p.PubComp != nil:
		return p.PubComp.Encode(dst)
	case p.Subscribe != nil:
		return p.Subscribe.Encode(dst)
	case p.SubAck != nil:
		return p.SubAck.Encode(dst)
	case p.Unsubscribe != nil:
		return p.Unsubscribe.Encode(dst)
	case p.UnsubAck != nil:
		return p.UnsubAck.Encode(dst)
	case p.Disconnect != nil:
		return p.Disconnect.Encode(dst)
	case p.Auth != nil:
		return p.Auth.Encode(dst)
	default:
		return nil
	}
}
