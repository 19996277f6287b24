package mqtt5

import (
	"github.com/axmq/mqttwire/buffer"
	"github.com/axmq/mqttwire/wire"
)

// AuthenticateReasonCode is the 3.15.2.1 AUTH reason code.
type AuthenticateReasonCode byte

const (
	AuthSuccess                AuthenticateReasonCode = 0x00
	AuthContinueAuthentication AuthenticateReasonCode = 0x18
	AuthReAuthenticate         AuthenticateReasonCode = 0x19
)

var authPropertyBindings = []Binding{
	{ID: AuthenticationMethod, Arity: ArityRequired, Name: "authentication method"},
	{ID: AuthenticationData, Arity: ArityOptional},
	{ID: ReasonString, Arity: ArityOptional},
	{ID: UserProperty, Arity: ArityList},
}

// Auth is the 3.15 AUTH variable header. An absent body decodes to
// the all-defaults Success value with no authentication method; note
// that a body that IS present always requires AuthenticationMethod
// (enforced by authPropertyBindings), so AuthenticationMethod is only
// ever empty on the all-defaults path.
type Auth struct {
	ReasonCode           AuthenticateReasonCode
	AuthenticationMethod wire.ByteString
	AuthenticationData   *buffer.Shared
	ReasonString         wire.ByteString
	UserProperties       []StringPair
}

// DecodeAuth reads the optional reason-code/property tail, defaulting
// to Success with no authentication method when the body is empty.
func DecodeAuth(src *buffer.Shared) (Auth, error) {
	if src.IsEmpty() {
		return Auth{ReasonCode: AuthSuccess}, nil
	}
	reasonByte, err := src.TryGetU8()
	if err != nil {
		return Auth{}, err
	}
	out := Auth{ReasonCode: AuthenticateReasonCode(reasonByte)}

	props, err := DecodeProperties(src)
	if err != nil {
		return Auth{}, err
	}
	if err := Validate(props, authPropertyBindings); err != nil {
		return Auth{}, err
	}
	out.AuthenticationMethod = props.Get(AuthenticationMethod).Value.(wire.ByteString)
	if p := props.Get(AuthenticationData); p != nil {
		out.AuthenticationData = p.Value.(*buffer.Shared)
	}
	if p := props.Get(ReasonString); p != nil {
		out.ReasonString = p.Value.(wire.ByteString)
	}
	for _, p := range props.GetAll(UserProperty) {
		out.UserProperties = append(out.UserProperties, p.Value.(StringPair))
	}
	return out, nil
}

// Encode writes the reason-code/property tail, omitting it entirely
// when the value is the all-defaults Success auth with no
// authentication method.
func (a Auth) Encode(dst wire.Writer) error {
	needBody := a.ReasonCode != AuthSuccess ||
		!a.AuthenticationMethod.IsEmpty() ||
		a.AuthenticationData != nil ||
		!a.ReasonString.IsEmpty() ||
		len(a.UserProperties) > 0
	if !needBody {
		return nil
	}
	if err := dst.TryPutU8(byte(a.ReasonCode)); err != nil {
		return err
	}
	props := &Properties{}
	props.Add(AuthenticationMethod, a.AuthenticationMethod)
	if a.AuthenticationData != nil && !a.AuthenticationData.IsEmpty() {
		props.Add(AuthenticationData, a.AuthenticationData)
	}
	if !a.ReasonString.IsEmpty() {
		props.Add(ReasonString, a.ReasonString)
	}
	for _, up := range a.UserProperties {
		props.Add(UserProperty, up)
	}
	return props.Encode(dst)
}
