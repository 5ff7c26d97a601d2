// Package sqlschema models database schema metadata and names constraints
// and indexes through declarative conventions.
//
// A [Convention] maps constraint categories, or their short prefixes, to
// naming templates. When a constraint attaches to a table, the convention
// entry selected for its category is rendered against the constraint and
// table, and the result becomes the constraint's name:
//
//	m := sqlschema.NewMetadata(sqlschema.Convention{
//		"pk": sqlschema.Pattern("pk_%(table_name)s"),
//		"uq": sqlschema.Pattern("uq_%(table_name)s_%(column_0_N_name)s"),
//	})
//
//	email := sqlschema.NewColumn("email", sqlschema.Text())
//	t, err := sqlschema.NewTable(m, "users",
//		sqlschema.NewColumn("id", sqlschema.Integer()),
//		email,
//	)
//	if err != nil { ... }
//
//	err = t.AddConstraints(
//		sqlschema.NewPrimaryKey(t.Column("id")),
//		sqlschema.NewUnique(email),
//	)
//	// The primary key is now named pk_users, the unique constraint
//	// uq_users_email.
//
// Names supplied by the schema author are never overwritten, and names the
// engine computed are final. Constraints that attach to a detached column
// are named later, as soon as the column joins a table.
package sqlschema
