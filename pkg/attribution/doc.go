// Package attribution models ad touchpoints, clicks and views, in plaintext
// and secret-shared form.
//
// Touchpoint is the revealed form. It defines the ordering every oblivious
// operation reproduces: touchpoints of one type are ordered by timestamp and
// a view always comes before a click.
//
// ObliviousTouchpoint holds the same fields shared between the two parties of
// an sh2pc.Job2P. Its operations (Select, IsValid, Less, Equal, Sort) never
// branch on shared values, so their message pattern depends only on public
// sizes. A touchpoint with a timestamp below 1 is a placeholder; placeholders
// are ordinary values and travel through the same operations.
//
// Batches of touchpoints are moved as flat share buffers: one touchpoint is
// ShareSize units laid out as the click flag, the timestamp and the ID, and
// touchpoint k of a batch starts at k*ShareSize. ShareData and BatchData
// write that layout; NewObliviousTouchpointFromBlocks and UnpackBatch read it.
package attribution
