// Package layout maps channel-layout identifiers reported by the prober to
// ordered lists of canonical channel roles.
//
// The registry covers the layout names ffprobe emits, including alternate
// spellings of the same physical arrangement ("5.1" and "5.1(side)", "quad"
// and "4.0"). Containers frequently omit or misreport layout metadata, so an
// unrecognized identifier is an expected condition: the Resolver logs a
// diagnostic and synthesizes positional generic roles instead of failing.
//
// Key types:
//   - ChannelRole: canonical spatial role of a single channel
//   - Descriptor: a registered layout and its ordered role list
//   - Resolver: resolves (layoutID, channelCount) to a role list
//
// Primary entry point:
//   - Resolver.ResolveRoles: never fails, always returns channelCount roles
package layout
