// Copyright 2026 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"context"

	"github.com/attic-labs/kingpin"
)

// KingpinHandler runs a parsed command. |input| is the full command as returned by kingpin's Parse.
type KingpinHandler func(ctx context.Context, input string) (exitCode int)

// KingpinCommand registers a command with |app| and returns it along with its handler.
type KingpinCommand func(app *kingpin.Application) (*kingpin.CmdClause, KingpinHandler)
