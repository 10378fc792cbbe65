/*
Package config resolves a loosely specified connection descriptor into a
canonical domain.Config.

Resolution merges, in order of increasing precedence:

 1. built-in defaults (http://localhost:8069, admin), filling only missing keys;
 2. the raw mapping, or the options loaded from a config file;
 3. the descriptor string (the string source itself, the "ooor_url" key, or OOOR_URL);
 4. OOOR_USERNAME, OOOR_PASSWORD and OOOR_DATABASE.

Resolve never fails: unreadable files are logged and treated as empty, and
unparseable values fall back to defaults.
*/
package config
