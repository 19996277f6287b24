// Package mqtt5 implements the MQTT 5.0 property list codec and the
// per-packet encoders/decoders built on it.
package mqtt5

import (
	"github.com/axmq/mqttwire/buffer"
	"github.com/axmq/mqttwire/wire"
)

// PropertyID identifies one of the 27 MQTT 5.0 properties.
type PropertyID byte

const (
	PayloadFormatIndicator          PropertyID = 0x01
	MessageExpiryInterval           PropertyID = 0x02
	ContentType                     PropertyID = 0x03
	ResponseTopic                   PropertyID = 0x08
	CorrelationData                 PropertyID = 0x09
	SubscriptionIdentifier          PropertyID = 0x0B
	SessionExpiryInterval           PropertyID = 0x11
	AssignedClientIdentifier        PropertyID = 0x12
	ServerKeepAlive                 PropertyID = 0x13
	AuthenticationMethod            PropertyID = 0x15
	AuthenticationData              PropertyID = 0x16
	RequestProblemInformation       PropertyID = 0x17
	WillDelayInterval               PropertyID = 0x18
	RequestResponseInformation      PropertyID = 0x19
	ResponseInformation             PropertyID = 0x1A
	ServerReference                 PropertyID = 0x1C
	ReasonString                    PropertyID = 0x1F
	ReceiveMaximum                  PropertyID = 0x21
	TopicAliasMaximum               PropertyID = 0x22
	TopicAlias                      PropertyID = 0x23
	MaximumQoS                      PropertyID = 0x24
	RetainAvailable                 PropertyID = 0x25
	UserProperty                    PropertyID = 0x26
	MaximumPacketSize               PropertyID = 0x27
	WildcardSubscriptionAvailable   PropertyID = 0x28
	SubscriptionIdentifierAvailable PropertyID = 0x29
	SharedSubscriptionAvailable     PropertyID = 0x2A
)

var propertyIDNames = map[PropertyID]string{
	PayloadFormatIndicator:          "PayloadFormatIndicator",
	MessageExpiryInterval:           "MessageExpiryInterval",
	ContentType:                     "ContentType",
	ResponseTopic:                   "ResponseTopic",
	CorrelationData:                 "CorrelationData",
	SubscriptionIdentifier:          "SubscriptionIdentifier",
	SessionExpiryInterval:           "SessionExpiryInterval",
	AssignedClientIdentifier:        "AssignedClientIdentifier",
	ServerKeepAlive:                 "ServerKeepAlive",
	AuthenticationMethod:            "AuthenticationMethod",
	AuthenticationData:              "AuthenticationData",
	RequestProblemInformation:       "RequestProblemInformation",
	WillDelayInterval:               "WillDelayInterval",
	RequestResponseInformation:      "RequestResponseInformation",
	ResponseInformation:             "ResponseInformation",
	ServerReference:                 "ServerReference",
	ReasonString:                    "ReasonString",
	ReceiveMaximum:                  "ReceiveMaximum",
	TopicAliasMaximum:               "TopicAliasMaximum",
	TopicAlias:                      "TopicAlias",
	MaximumQoS:                      "MaximumQoS",
	RetainAvailable:                 "RetainAvailable",
	UserProperty:                    "UserProperty",
	MaximumPacketSize:               "MaximumPacketSize",
	WildcardSubscriptionAvailable:   "WildcardSubscriptionAvailable",
	SubscriptionIdentifierAvailable: "SubscriptionIdentifierAvailable",
	SharedSubscriptionAvailable:     "SharedSubscriptionAvailable",
}

func (id PropertyID) String() string {
	if name, ok := propertyIDNames[id]; ok {
		return name
	}
	return "Unrecognized"
}

// valueKind is the wire shape of a property's value, independent of
// which Go type its Value field holds at runtime.
type valueKind byte

const (
	kindByte valueKind = iota
	kindU16
	kindU32
	kindVarInt
	kindString
	kindStringPair
	kindBinary
)

// propertySpec is the per-identifier wire shape and multiplicity,
// shared by every packet's property section.
type propertySpec struct {
	kind     valueKind
	multiple bool
}

var propertySpecs = map[PropertyID]propertySpec{
	PayloadFormatIndicator:          {kindByte, false},
	MessageExpiryInterval:           {kindU32, false},
	ContentType:                     {kindString, false},
	ResponseTopic:                   {kindString, false},
	CorrelationData:                 {kindBinary, false},
	SubscriptionIdentifier:          {kindVarInt, true},
	SessionExpiryInterval:           {kindU32, false},
	AssignedClientIdentifier:        {kindString, false},
	ServerKeepAlive:                 {kindU16, false},
	AuthenticationMethod:            {kindString, false},
	AuthenticationData:              {kindBinary, false},
	RequestProblemInformation:       {kindByte, false},
	WillDelayInterval:               {kindU32, false},
	RequestResponseInformation:      {kindByte, false},
	ResponseInformation:             {kindString, false},
	ServerReference:                 {kindString, false},
	ReasonString:                    {kindString, false},
	ReceiveMaximum:                  {kindU16, false},
	TopicAliasMaximum:               {kindU16, false},
	TopicAlias:                      {kindU16, false},
	MaximumQoS:                      {kindByte, false},
	RetainAvailable:                 {kindByte, false},
	UserProperty:                    {kindStringPair, true},
	MaximumPacketSize:               {kindU32, false},
	WildcardSubscriptionAvailable:   {kindByte, false},
	SubscriptionIdentifierAvailable: {kindByte, false},
	SharedSubscriptionAvailable:     {kindByte, false},
}

// StringPair is a UTF-8 key/value pair, used for UserProperty.
type StringPair struct {
	Key   wire.ByteString
	Value wire.ByteString
}

// Property is a single decoded or to-be-encoded property entry.
type Property struct {
	ID    PropertyID
	Value any
}

// Properties is an order-independent multiset of properties, subject
// to the per-identifier uniqueness rule enforced by Add.
type Properties struct {
	List []Property
}

// Get returns the first property with id, or nil if absent.
func (p *Properties) Get(id PropertyID) *Property {
	for i := range p.List {
		if p.List[i].ID == id {
			return &p.List[i]
		}
	}
	return nil
}

// GetAll returns every property with id, for properties declared
// multiple (UserProperty, SubscriptionIdentifier).
func (p *Properties) GetAll(id PropertyID) []Property {
	var out []Property
	for _, prop := range p.List {
		if prop.ID == id {
			out = append(out, prop)
		}
	}
	return out
}

// DuplicatePropertyError names the property identifier that appeared
// a second time where its spec forbids repetition. It unwraps to
// wire.ErrDuplicateProperty so callers matching on the sentinel keep
// working.
type DuplicatePropertyError struct {
	ID PropertyID
}

func (e *DuplicatePropertyError) Error() string {
	return "mqtt5: duplicate property " + e.ID.String()
}

func (e *DuplicatePropertyError) Unwrap() error { return wire.ErrDuplicateProperty }

// MissingRequiredPropertyError names the property a packet's binding
// table required but did not find. Name is the human-readable name
// used by that packet type's binding (not necessarily the PropertyID's
// Go constant name — see authPropertyBindings' "authentication
// method"). It unwraps to wire.ErrMissingRequiredProperty.
type MissingRequiredPropertyError struct {
	Name string
}

func (e *MissingRequiredPropertyError) Error() string {
	return "mqtt5: missing required property " + e.Name
}

func (e *MissingRequiredPropertyError) Unwrap() error { return wire.ErrMissingRequiredProperty }

// Add appends a property, rejecting a second occurrence of an
// identifier whose spec does not allow repetition.
func (p *Properties) Add(id PropertyID, value any) error {
	spec, ok := propertySpecs[id]
	if !ok {
		return wire.ErrUnrecognizedPropertyIdentifier
	}
	if !spec.multiple && p.Get(id) != nil {
		return &DuplicatePropertyError{ID: id}
	}
	p.List = append(p.List, Property{ID: id, Value: value})
	return nil
}

// Arity states how many times a property identifier may legally
// appear within one specific packet's property section.
type Arity byte

const (
	// ArityOptional: zero or one occurrence.
	ArityOptional Arity = iota
	// ArityRequired: exactly one occurrence.
	ArityRequired
	// ArityList: zero or more occurrences.
	ArityList
)

// Binding pairs a property identifier with its arity within one
// packet type's property table. Name overrides the identifier's
// PropertyID.String() form in a MissingRequiredPropertyError; most
// bindings leave it blank and get the PropertyID's name.
type Binding struct {
	ID    PropertyID
	Arity Arity
	Name  string
}

func (b Binding) name() string {
	if b.Name != "" {
		return b.Name
	}
	return b.ID.String()
}

// Validate checks props against bindings: every required identifier
// is present, and no identifier outside the table appears at all. Per-
// identifier uniqueness for non-list properties was already enforced
// by Add/DecodeProperties, so this only checks presence and
// membership.
func Validate(props *Properties, bindings []Binding) error {
	allowed := make(map[PropertyID]Arity, len(bindings))
	for _, b := range bindings {
		allowed[b.ID] = b.Arity
	}
	for _, prop := range props.List {
		if _, ok := allowed[prop.ID]; !ok {
			return wire.ErrUnexpectedProperty
		}
	}
	for _, b := range bindings {
		if b.Arity == ArityRequired && props.Get(b.ID) == nil {
			return &MissingRequiredPropertyError{Name: b.name()}
		}
	}
	return nil
}

// DecodeProperties reads a property length prefix (the same variable
// byte integer format as the packet remaining length) followed by
// that many bytes of tagged property entries.
func DecodeProperties(src *buffer.Shared) (*Properties, error) {
	length, err := wire.DecodeRemainingLength(src)
	if err != nil {
		return nil, err
	}
	props := &Properties{}
	if length == 0 {
		return props, nil
	}
	section, err := src.SplitTo(int(length))
	if err != nil {
		return nil, err
	}
	defer section.Close()
	for !section.IsEmpty() {
		idByte, err := section.TryGetU8()
		if err != nil {
			return nil, err
		}
		id := PropertyID(idByte)
		spec, ok := propertySpecs[id]
		if !ok {
			return nil, wire.ErrUnrecognizedPropertyIdentifier
		}
		value, err := decodeValue(section, spec.kind)
		if err != nil {
			return nil, err
		}
		if err := validatePropertyRange(id, value); err != nil {
			return nil, err
		}
		if err := props.Add(id, value); err != nil {
			return nil, err
		}
	}
	return props, nil
}

// validatePropertyRange rejects the three properties whose zero value
// is a well-formed wire value but a protocol error: MaximumPacketSize,
// TopicAlias and ReceiveMaximum each mean "no such limit"/"no alias"
// only by omission from the property section entirely, so a decoded or
// about-to-be-encoded zero is always invalid. Checked on both the
// decode path (DecodeProperties) and the encode path (encodeEntry) per
// the ground truth's v5/property.rs decode/encode pair for each.
func validatePropertyRange(id PropertyID, value any) error {
	switch id {
	case MaximumPacketSize:
		if value.(uint32) == 0 {
			return wire.ErrInvalidMaximumPacketSize
		}
	case TopicAlias:
		if value.(uint16) == 0 {
			return wire.ErrInvalidTopicAlias
		}
	case ReceiveMaximum:
		if value.(uint16) == 0 {
			return wire.ErrInvalidReceiveMaximum
		}
	}
	return nil
}

func decodeValue(src *buffer.Shared, kind valueKind) (any, error) {
	switch kind {
	case kindByte:
		return src.TryGetU8()
	case kindU16:
		return src.TryGetU16BE()
	case kindU32:
		return src.TryGetU32BE()
	case kindVarInt:
		return wire.DecodeRemainingLength(src)
	case kindString:
		return wire.DecodeString(src)
	case kindStringPair:
		key, err := wire.DecodeString(src)
		if err != nil {
			return nil, err
		}
		val, err := wire.DecodeString(src)
		if err != nil {
			return nil, err
		}
		return StringPair{Key: key, Value: val}, nil
	case kindBinary:
		return wire.DecodeBinary(src)
	default:
		return nil, wire.ErrUnrecognizedPropertyIdentifier
	}
}

// Encode writes the property length prefix followed by every
// property entry, via a two-pass byte count identical in spirit to
// the packet-framing length computation.
func (p *Properties) Encode(dst wire.Writer) error {
	var counter wire.ByteCounter
	for _, prop := range p.List {
		if err := encodeEntry(&counter, prop); err != nil {
			return err
		}
	}
	if err := wire.EncodeRemainingLength(dst, uint32(counter.N)); err != nil {
		return err
	}
	for _, prop := range p.List {
		if err := encodeEntry(dst, prop); err != nil {
			return err
		}
	}
	return nil
}

func encodeEntry(dst wire.Writer, prop Property) error {
	spec, ok := propertySpecs[prop.ID]
	if !ok {
		return wire.ErrUnrecognizedPropertyIdentifier
	}
	if err := validatePropertyRange(prop.ID, prop.Value); err != nil {
		return err
	}
	if err := dst.TryPutU8(byte(prop.ID)); err != nil {
		return err
	}
	switch spec.kind {
	case kindByte:
		return dst.TryPutU8(prop.Value.(byte))
	case kindU16:
		return dst.TryPutU16BE(prop.Value.(uint16))
	case kindU32:
		return dst.TryPutU32BE(prop.Value.(uint32))
	case kindVarInt:
		return wire.EncodeRemainingLength(dst, prop.Value.(uint32))
	case kindString:
		return wire.EncodeString(dst, prop.Value.(wire.ByteString))
	case kindStringPair:
		pair := prop.Value.(StringPair)
		if err := wire.EncodeString(dst, pair.Key); err != nil {
			return err
		}
		return wire.EncodeString(dst, pair.Value)
	case kindBinary:
		return wire.EncodeBinary(dst, prop.Value.(*buffer.Shared))
	default:
		return wire.ErrUnrecognizedPropertyIdentifier
	}
}
