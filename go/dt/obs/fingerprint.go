// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package obs

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"github.com/Fantom-foundation/DecisionTable/go/dt/tbl"
)

// fingerprint computes a SHA3-256 digest identifying the content of a table.
// Every string is length-prefixed so that distinct tables never share an
// encoding.
func fingerprint(table tbl.Table) (hash [32]byte) {
	hasher := sha3.New256()
	var buffer [8]byte
	writeLen := func(n int) {
		binary.BigEndian.PutUint64(buffer[:], uint64(n))
		hasher.Write(buffer[:])
	}
	writeString := func(s string) {
		writeLen(len(s))
		hasher.Write([]byte(s))
	}

	writeString(table.Name)
	vars := table.Model.Variables()
	writeLen(len(vars))
	for _, v := range vars {
		writeString(v.Name)
		writeLen(len(v.Values))
		for _, value := range v.Values {
			writeString(value)
		}
	}
	writeLen(len(table.Rules))
	for _, rule := range table.Rules {
		writeString(rule.Action)
		writeLen(len(rule.Rule))
		for _, restriction := range rule.Rule {
			writeString(restriction.Name)
			if restriction.IsWildcard() {
				writeLen(-1)
				continue
			}
			values := restriction.Values()
			writeLen(len(values))
			for _, value := range values {
				writeString(value)
			}
		}
	}

	copy(hash[:], hasher.Sum(nil)[:])
	return
}
