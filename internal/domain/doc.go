// Package domain models NYC motor vehicle collision records and the pure
// transformations applied to them before rendering.
//
// # Data Source
//
// Records come from the NYC Open Data "Motor Vehicle Collisions - Crashes"
// export (one row per police-reported crash). The export carries ~30 columns;
// only the seven listed on [Collision] are read.
//
// # Source Conventions
//
// Date and time:
//
//	"CRASH DATE" is MM/DD/YYYY, "CRASH TIME" is H:MM in 24-hour notation,
//	e.g. "09/11/2021" + "2:39". Both are local New York time with no offset,
//	so parsed timestamps are kept zone-less (UTC location).
//	Rows whose combined value cannot be parsed keep nil derived fields.
//
// Coordinates:
//
//	WGS-84 decimal degrees. Missing values are empty cells. A noticeable share
//	of rows carry 0,0 or obviously misplaced points; those fall outside the
//	regional bounding box and are dropped by [Clean].
//
// Bounding box:
//
//	35 < latitude < 45 and -80 < longitude < -70 (exclusive). This is a rough
//	sanity filter for the northeastern United States, not a city boundary.
//
// Contributing factors:
//
//	Free-text category such as "Driver Inattention/Distraction" or
//	"Unspecified". Empty cells are excluded from factor counts.
package domain
