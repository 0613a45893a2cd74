package clientdata

import "time"

// TTLLastKnownGood bounds how long a remembered quote may stand in for a
// failed fetch. Expired rows are removed by CleanupJob.
const TTLLastKnownGood = 24 * time.Hour
