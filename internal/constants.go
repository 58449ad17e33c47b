/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

const (
	AppName         = "swisstd"
	SnapshotBucket  = "bopmatic-boylstonchessclub-swiss-prod-snapshots"
	SnapshotPrefix  = "swiss"
	DefaultStateDir = ".swisstd"
	DefaultLogLevel = "info"
)
