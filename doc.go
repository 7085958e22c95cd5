/*

Package rpkg is a reader, layering engine and writer for the resource-archive
("RPKG") container format used by a family of AAA game titles.

An archive ships on disk as a base archive plus an ordered sequence of patch
archives that override, add to, or delete entries from the base. This package
decodes a single archive file (or an in-memory buffer). The sibling packages
layer patches over a base (package partition), resolve a resource id across a
tree of mounted partitions (package mount), and parse the partition-definition
manifest that describes how a game installation is organized (package
manifest).

Archive layout, in order:

- a 4-byte magic ("RPKG" for v1, "RPK2" for v2, both stored reversed on disk
  as "GKPR" and "2KPR")

- for v2 only, a PackageMetadata block (chunk id, chunk type, patch id,
  language tag)

- a PackageHeader (file count, offset table size, metadata table size)

- if the filename contains "patch", an unneeded-resources block (a count
  followed by that many 64-bit resource ids)

- file_count PackageOffsetInfo entries (the offset table)

- file_count ResourceHeader entries, each optionally followed by an inline
  ReferenceChunk (the metadata table)

- the resource payloads themselves, at the offsets named in the offset table

Each resource payload may be LZ4 block compressed (LZ4-HC for v2 archives)
and/or obfuscated with a fixed 8-byte rolling XOR ("scramble"); see
ReadResource for the exact order these transforms are undone in.

*/
package rpkg
