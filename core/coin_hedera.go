package core

import (
	"encoding/binary"
	"fmt"
)

// hederaDecoder formats a 20-byte payload as shard.realm.account:
// 4-byte shard, 8-byte realm, 8-byte account, all big-endian. Grounded
// on original_source's hedera.rs.
type hederaDecoder struct{}

func (hederaDecoder) decode(data []byte) (string, error) {
	if len(data) != 20 {
		return "", &DecodeError{Message: "hedera: invalid structure"}
	}
	shard := binary.BigEndian.Uint32(data[0:4])
	realm := binary.BigEndian.Uint64(data[4:12])
	account := binary.BigEndian.Uint64(data[12:20])
	return fmt.Sprintf("%d.%d.%d", shard, realm, account), nil
}
