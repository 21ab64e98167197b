// Package kernel provides the value objects shared by every aggregate of the
// pharmacy delivery core.
//
// The package includes:
//   - UUID: identifiers of commands, packages, profiles, accounts and pharmacies
//   - GeoPoint: a validated WGS84 coordinate used for delivery positions and routing waypoints
//   - Weekdays: a seven-bit recurrence mask for tours and delivery calendars
//
// Zero values of UUID and GeoPoint are invalid and fail Validate, so a value
// read back from storage or a request can always be checked before use.
package kernel
