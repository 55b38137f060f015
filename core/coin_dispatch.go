package core

// multicoinDecoder is implemented by every per-coin-family decoder.
// Grounded on original_source's MulticoinDecoder trait
// (shared/src/models/multicoin/decoding/mod.rs): a total function from
// raw bytes to a display string, never panicking.
type multicoinDecoder interface {
	decode(data []byte) (string, error)
}

// DecodeMulticoin dispatches on the coin identifier to the matching
// decoder and runs it over data. Unrecognized coin identifiers (Monero,
// Tezos, Polkadot, and anything else not in the table) return Unsupported.
// Ethereum and Ethereum-Classic SLIP-44 entries, Rootstock, and all EVM
// chain ids route through the checksummed-hex EVM decoder (spec.md §4.3).
func DecodeMulticoin(coin CoinId, data []byte) (string, error) {
	if len(data) == 0 || allZero(data) {
		return "", nil
	}
	d, err := dispatchDecoder(coin)
	if err != nil {
		return "", err
	}
	return d.decode(data)
}

func dispatchDecoder(coin CoinId) (multicoinDecoder, error) {
	if coin.Kind == CoinEvm {
		if coin.Value == 1 {
			return evmDecoder{chain: RSKIPChain{IsEthereum: true}}, nil
		}
		return evmDecoder{chain: RSKIPChain{ChainID: coin.Value}}, nil
	}

	switch coin {
	case CoinBitcoin:
		return bitcoinDecoder{}, nil
	case CoinLitecoin:
		return litecoinDecoder{}, nil
	case CoinDogecoin:
		return dogecoinPSHDecoder{p2pkhVersion: 0x1e, p2shVersion: 0x16}, nil
	case CoinMonacoin:
		return dogecoinPSHDecoder{p2pkhVersion: 0x32, p2shVersion: 0x05}, nil
	case CoinBitcoinCash:
		return dogecoinPSHDecoder{p2pkhVersion: 0x00, p2shVersion: 0x05}, nil
	case CoinEthereumSlip44, CoinEthereumClassic:
		return evmDecoder{chain: RSKIPChain{IsEthereum: true}}, nil
	case CoinRootstock:
		return evmDecoder{chain: RSKIPChain{ChainID: 30}}, nil
	case CoinRipple:
		return rippleDecoder{}, nil
	case CoinStellar:
		return stellarDecoder{}, nil
	case CoinSolana:
		return solanaDecoder{}, nil
	case CoinCardano:
		return cardanoDecoder{}, nil
	case CoinBinance:
		return binanceDecoder{}, nil
	case CoinHedera:
		return hederaDecoder{}, nil
	case CoinMonero, CoinTezos, CoinPolkadot:
		return unsupportedDecoder{}, nil
	default:
		return unsupportedDecoder{}, nil
	}
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

type unsupportedDecoder struct{}

func (unsupportedDecoder) decode([]byte) (string, error) {
	return "", &Unsupported{Message: "coin not supported"}
}
