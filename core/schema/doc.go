/*
Package schema loads declarative parameter schemas and replays them into a
registry.

Two endpoints that exchange values must define the same parameters. A schema
document is that shared sequence of definitions, kept in a file instead of
code.

# Document Format

A document in YAML:

	name: device
	params:
	  - { name: speed, type: int, default: 0, min: 0, max: 200 }
	  - { name: temperature_limit, type: float, default: 60.0, min: 0, max: 100 }
	  - { name: mode, type: string, default: AUTO, allowed: [AUTO, MANUAL] }
	  - { name: enabled, type: bool, default: true }
	  - name: network.ip_address
	    type: string
	    default: 192.168.1.100
	    min_length: 7
	    max_length: 15

The same document in TOML:

	name = "device"

	[[params]]
	name = "speed"
	type = "int"
	default = 0
	min = 0
	max = 200

# Parameter Types

  - int:    signed 64-bit integer (min, max)
  - uint:   unsigned 64-bit integer (min, max)
  - float:  64-bit floating point (min, max)
  - bool:   boolean, no constraints
  - string: text (min_length, max_length, allowed, pattern)

Lengths count Unicode code points. A pattern is stored with the schema but
never enforced. Parameters are defined in document order.
*/
package schema
