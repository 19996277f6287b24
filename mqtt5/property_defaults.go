package mqtt5

// Helpers for the encode-side default-value omission rule: a property
// whose value equals the protocol default is never written, so a
// decoded packet that never saw the identifier on the wire and one
// that received it at its default value are indistinguishable once
// re-encoded.

// addByteIfNotEqual adds a single-byte property unless v equals def.
func addByteIfNotEqual(p *Properties, id PropertyID, v, def byte) {
	if v != def {
		_ = p.Add(id, v)
	}
}

// addByteIfTrue adds a boolean-as-byte property only when true,
// encoding true as 0x01. Used by RequestResponseInformation, whose
// default (false/omitted) is the common case.
func addByteIfTrue(p *Properties, id PropertyID, v bool) {
	if v {
		_ = p.Add(id, byte(0x01))
	}
}

// addByteIfFalse adds a boolean-as-byte property only when false,
// encoding false as 0x00. Used by RequestProblemInformation and the
// four "Available" flags, whose default is true/omitted.
func addByteIfFalse(p *Properties, id PropertyID, v bool) {
	if !v {
		_ = p.Add(id, byte(0x00))
	}
}

// addU16IfNotZero adds a two-byte property unless v is zero.
func addU16IfNotZero(p *Properties, id PropertyID, v uint16) {
	if v != 0 {
		_ = p.Add(id, v)
	}
}

// addU16IfInOpenRange adds a two-byte property only when it is
// neither zero nor the protocol ceiling, both of which are implicit
// defaults not worth spending bytes on. Used by ReceiveMaximum
// (ceiling 65535); TopicAliasMaximum, whose default is zero, goes
// through addU16IfNotZero instead.
func addU16IfInOpenRange(p *Properties, id PropertyID, v, ceiling uint16) {
	if v != 0 && v != ceiling {
		_ = p.Add(id, v)
	}
}

// addU32IfNotZero adds a four-byte property unless v is zero.
func addU32IfNotZero(p *Properties, id PropertyID, v uint32) {
	if v != 0 {
		_ = p.Add(id, v)
	}
}
