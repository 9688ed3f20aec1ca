// Package fixtures provides record fixtures for tests of the specification package and the store engines.
//
// It contains the fixed product catalog records used throughout the tests
// as well as random records for property style tests.
package fixtures
