/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqlite

import (
	"time"

	"github.com/go-openapi/strfmt"
)

func timeOf(dt strfmt.DateTime) time.Time { return time.Time(dt) }
