// Package bootstrap seeds the authorization tables with their default
// records: roles, users, protected resources, the role hierarchy and the
// IP allow-list.
//
// A Seeder is registered as a server ready hook. The first ready signal
// runs one transactional find-or-create pass; later signals are ignored.
// Restarts rely on the natural-key lookups, not the in-process gate, to
// avoid duplicates.
//
//	seeder, err := bootstrap.New(gormstore.NewStore(db), credential.NewBcryptHasher(0), bootstrap.Options{})
//	if err != nil {
//	    return err
//	}
//	srv.OnReady(seeder.HandleReady)
package bootstrap
