/*
	The ostree transmat extracts legacy flatpak bundles.

	A legacy bundle is an OSTree static delta.  There's no reading it directly:
	we apply it offline into a scratch repository (in "bare-user" mode,
	so no privileges are needed), find the commit the delta produced,
	and check that commit out into the output directory.

	All of the real work is done by the `ostree` tool; we only drive it.
	The scratch repository belongs to the caller, who must remove it afterwards.
*/
package ostree
