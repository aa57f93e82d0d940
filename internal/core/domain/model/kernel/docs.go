// Package kernel contains the shared value objects of the dispatch domain:
// UUID identifiers and geodesic GeoPoint coordinates. Both follow the
// constructor-guard pattern: the zero value is invalid and every instance
// must be created through a validating constructor.
package kernel
