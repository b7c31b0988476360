// README: Common identifier type shared across modules.
package types

// ID is an opaque external identifier (customer, trip, or driver).
type ID string
