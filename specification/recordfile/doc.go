// Package recordfile reads and writes record datasets in YAML or JSON.
//
// A dataset is either a top-level list of mappings:
//
//	- name: Apple
//	  color: green
//	  size: small
//
// or a mapping with a records key holding such a list:
//
//	{"records": [{"name": "Apple", "color": "green", "size": "small"}]}
//
// The format of a file is chosen by its extension: .yaml, .yml or .json.
package recordfile
