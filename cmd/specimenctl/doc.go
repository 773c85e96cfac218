// Command specimenctl edits a SpecimenPro event document and generates the
// QR artifacts for its specimens, as individual PNG files or a printable PDF grid.
package main
