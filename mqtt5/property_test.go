package mqtt5

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axmq/mqttwire/buffer"
	"github.com/axmq/mqttwire/wire"
)

func newSharedFromBytes(t *testing.T, b []byte) *buffer.Shared {
	t.Helper()
	owned := buffer.NewOwned(append([]byte(nil), b...), nil)
	owned.Fill(len(b))
	return owned.Freeze()
}

func TestPropertiesAddRejectsDuplicateSingleton(t *testing.T) {
	props := &Properties{}
	require.NoError(t, props.Add(SessionExpiryInterval, uint32(10)))
	err := props.Add(SessionExpiryInterval, uint32(20))
	assert.ErrorIs(t, err, wire.ErrDuplicateProperty)
}

func TestPropertiesAddAllowsRepeatedListProperty(t *testing.T) {
	props := &Properties{}
	require.NoError(t, props.Add(UserProperty, StringPair{Key: wire.ByteStringOf("a"), Value: wire.ByteStringOf("1")}))
	require.NoError(t, props.Add(UserProperty, StringPair{Key: wire.ByteStringOf("b"), Value: wire.ByteStringOf("2")}))
	assert.Len(t, props.GetAll(UserProperty), 2)
}

func TestValidateRequiresRequiredProperty(t *testing.T) {
	props := &Properties{}
	err := Validate(props, []Binding{{ID: AuthenticationMethod, Arity: ArityRequired}})
	assert.ErrorIs(t, err, wire.ErrMissingRequiredProperty)
	var missingErr *MissingRequiredPropertyError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, "AuthenticationMethod", missingErr.Name)
}

func TestValidateRejectsUnlistedProperty(t *testing.T) {
	props := &Properties{}
	require.NoError(t, props.Add(ContentType, wire.ByteStringOf("text/plain")))
	err := Validate(props, []Binding{{ID: ReasonString, Arity: ArityOptional}})
	assert.ErrorIs(t, err, wire.ErrUnexpectedProperty)
}

func TestPropertiesEncodeDecodeRoundTrip(t *testing.T) {
	props := &Properties{}
	require.NoError(t, props.Add(SessionExpiryInterval, uint32(3600)))
	require.NoError(t, props.Add(ReceiveMaximum, uint16(100)))
	require.NoError(t, props.Add(UserProperty, StringPair{Key: wire.ByteStringOf("k"), Value: wire.ByteStringOf("v")}))

	var counter wire.ByteCounter
	require.NoError(t, props.Encode(&counter))
	owned := buffer.NewOwned(make([]byte, counter.N), nil)
	require.NoError(t, props.Encode(owned))
	shared := owned.Freeze()

	got, err := DecodeProperties(shared)
	require.NoError(t, err)
	require.NotNil(t, got.Get(SessionExpiryInterval))
	assert.Equal(t, uint32(3600), got.Get(SessionExpiryInterval).Value.(uint32))
	assert.Equal(t, uint16(100), got.Get(ReceiveMaximum).Value.(uint16))
	assert.Len(t, got.GetAll(UserProperty), 1)
}

func TestDecodePropertiesRejectsDuplicateOnWire(t *testing.T) {
	props := &Properties{}
	require.NoError(t, props.Add(SessionExpiryInterval, uint32(1)))
	// Manually append a second entry, bypassing Add's own uniqueness
	// check, to build wire bytes a compliant encoder would never emit
	// but a decoder must still reject.
	props.List = append(props.List, Property{ID: SessionExpiryInterval, Value: uint32(2)})

	var counter wire.ByteCounter
	for _, p := range props.List {
		require.NoError(t, encodeEntry(&counter, p))
	}
	owned := buffer.NewOwned(make([]byte, 1+counter.N), nil)
	require.NoError(t, wire.EncodeRemainingLength(owned, uint32(counter.N)))
	for _, p := range props.List {
		require.NoError(t, encodeEntry(owned, p))
	}
	shared := owned.Freeze()

	_, err := DecodeProperties(shared)
	assert.ErrorIs(t, err, wire.ErrDuplicateProperty)
}
