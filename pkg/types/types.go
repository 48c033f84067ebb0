// Package types holds the few scalar type aliases shared across the
// jtree-partition packages, so a future width change (the original's jnid_t
// could in principle grow past 32 bits on a graph with more than 4 billion
// vertices) is a one-line edit instead of a grep-and-replace.
package types

// Vid identifies an original graph vertex.
type Vid = uint32

// Jnid identifies a node of the junction tree. Each inserted graph vertex
// maps to one Jnid (jtree.Tree.VidToJnid); skipped or deferred vertices map
// to NoJnid, and the nodes the rooting phase adds map to no vertex.
type Jnid = uint32

// NoJnid is the sentinel "no node" value, matching the original's use of
// the type's max value as a null marker instead of a signed -1.
const NoJnid Jnid = ^Jnid(0)

// Part identifies a partition assignment. -1 means unassigned.
type Part = int32

// NoPart is the "not yet assigned to any part" sentinel.
const NoPart Part = -1
