package oracle

import (
	"encoding/binary"

	"github.com/sibyl-oracle/sibyl-contract/contracts/oracle/oracleconst"
)

// RegistryKey returns the storage key of the registry record.
func RegistryKey() []byte {
	return []byte(oracleconst.RegistryKey)
}

// PredictionKey returns the storage key of the prediction with the given id.
// Ids are issued sequentially from 1, keys of ids above math.MaxInt64 differ
// from the contract ones.
func PredictionKey(id uint64) []byte {
	key := make([]byte, len(oracleconst.PredictionPrefix)+oracleconst.PredictionIDSize)
	copy(key, oracleconst.PredictionPrefix)
	binary.LittleEndian.PutUint64(key[len(oracleconst.PredictionPrefix):], id)
	return key
}
