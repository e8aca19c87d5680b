/*
Package document reads attributed hierarchical documents.

Behavior graphs and choice models are configured from documents made of named
elements carrying string attributes, optional text, and ordered children. XML
maps onto this model directly; YAML follows a small convention described on
ParseYAML. Both produce the same Element tree, so the builders downstream never
care which format a file was written in.
*/
package document
