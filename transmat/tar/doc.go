/*
	The tar transmat extracts modern flatpak bundles,
	which are tar archives (compressed or not).

	Extraction is done by an external tool -- `bsdtar` by preference,
	since it copes with more compressions and archive dialects, else `tar`.
	Before forking it we peek at the archive in-process; that check is only
	advisory, and a bundle we can't make sense of is still handed to the tool.
*/
package tartrans
