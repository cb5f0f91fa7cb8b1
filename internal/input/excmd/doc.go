// Package excmd holds the Ex command registry.
//
// Commands are registered under an abbreviation and a full name, where the
// abbreviation is the shortest accepted form: registering "s" for
// "substitute" accepts "s", "su", "sub" ... "substitute". Entries are kept
// sorted by abbreviation and Lookup returns the first entry, in that order,
// whose abbreviation is a prefix of the input and whose name starts with the
// input.
//
// Resolution therefore depends on abbreviation order, not name order. With
// "s"/"substitute" and "se"/"set" registered, "se" and "set" resolve to set
// because "substitute" does not start with them, while "su" resolves to
// substitute. A short abbreviation can shadow a longer registration for
// inputs that both accept; register abbreviations with that in mind.
package excmd
