// Package cmd implements the itemprobe CLI commands using Cobra.
//
// Available commands:
//   - run: Execute the smoke script against an items API
//   - dates: Demonstrate date pattern serialization
//   - init: Write an example itemprobe.yaml
//   - version: Show itemprobe version information
//
// Settings come from defaults, then the config file, then ITEMPROBE_*
// environment variables, then flags.
package cmd
