// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package gen

import "github.com/Fantom-foundation/DecisionTable/go/dt/common"

const ErrUnknownVariable = common.ConstErr("rule references a variable unknown to the model")
const ErrEmptyStateSpace = common.ConstErr("model has no conditions")
