package core

// bitcoinDecoder tries SegWit first, then 25-byte P2PKH, then 23-byte
// P2SH, matching original_source's bitcoin.rs dispatch order.
type bitcoinDecoder struct{}

func (bitcoinDecoder) decode(data []byte) (string, error) {
	if addr, err := (segwitDecoder{hrp: "bc"}).decode(data); err == nil {
		return addr, nil
	}
	if len(data) == 25 {
		return (p2pkhDecoder{version: 0x00}).decode(data)
	}
	if len(data) == 23 {
		return (p2shDecoder{version: 0x05}).decode(data)
	}
	return "", &DecodeError{Message: "bitcoin: invalid structure"}
}

// litecoinDecoder mirrors bitcoinDecoder with Litecoin's SegWit hrp and
// version bytes, plus the original's explicit "ltc" script-prefix
// not-supported carve-out (original_source's litecoin.rs).
type litecoinDecoder struct{}

func (litecoinDecoder) decode(data []byte) (string, error) {
	if addr, err := (segwitDecoder{hrp: "ltc"}).decode(data); err == nil {
		return addr, nil
	}
	if len(data) == 25 {
		return (p2pkhDecoder{version: 0x30}).decode(data)
	}
	if len(data) == 23 {
		return (p2shDecoder{version: 0x32}).decode(data)
	}
	if len(data) >= 3 && data[0] == 0x6c && data[1] == 0x74 && data[2] == 0x63 {
		return "", &Unsupported{Message: "litecoin: ltc-prefixed script not supported"}
	}
	return "", &DecodeError{Message: "litecoin: invalid structure"}
}

// dogecoinPSHDecoder is the shared P2PKH/P2SH-only shape used by
// Dogecoin, Monacoin, and Bitcoin Cash (all three decoders in
// original_source dispatch purely on byte length with family-specific
// version bytes — none attempt SegWit).
type dogecoinPSHDecoder struct {
	p2pkhVersion byte
	p2shVersion  byte
}

func (d dogecoinPSHDecoder) decode(data []byte) (string, error) {
	switch len(data) {
	case 25:
		return (p2pkhDecoder{version: d.p2pkhVersion}).decode(data)
	case 23:
		return (p2shDecoder{version: d.p2shVersion}).decode(data)
	default:
		return "", &DecodeError{Message: "invalid structure"}
	}
}
