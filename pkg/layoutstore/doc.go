// Package layoutstore holds the persistence backends for landing page
// layouts. Each subpackage implements landing.LayoutStore.
package layoutstore
