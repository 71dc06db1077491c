// Package form models Mike X form submissions and the views derived from
// them when a submission is mirrored into a directory database.
package form
