/*
Package connstr parses ooor connection descriptors.

A descriptor packs host, port, credentials and database into one string:

	admin:secret@erp.example.com:8069/production
	ooor://admin@erp.example.com/production
	user.production@erp.example.com
	erp.example.com:443

Parsing is best-effort: fragments that do not fit the grammar fall back to
defaults (localhost, 8069, admin) instead of failing. The same input always
yields the same Result.
*/
package connstr
