// Package preflight provides readiness checks for the filesystem paths a
// conversion run depends on.
//
// These checks run in two contexts:
//   - The converter calls ValidateSource before touching the output
//     directory, so a missing database never wipes previous output.
//   - The CLI "mchsplit check" command calls RunAll to display the state of
//     every configured path.
//
// The history database check is skipped unless history is enabled.
package preflight
