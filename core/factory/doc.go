// Package factory builds pluggable modules, such as metrics sinks, from
// configuration. A module is selected by its type name and configured with a
// raw map decoded into a typed struct:
//
//	metrics:
//	  sinks:
//	    - type: prometheus
//	      conf:
//	        textfile: /var/lib/node_exporter/gridfeed.prom
//
// Implementations register a Factory under their type name, usually from an
// init function, and callers instantiate them with Registry.Create.
package factory
