// Package params turns CLI parameter sources into a dbexec.ParameterSet.
//
// Values arrive from three places, later sources overriding earlier ones:
// defaults in dbexec.yaml, then --params-file files in .env format, then
// --param name=value flags.
package params
