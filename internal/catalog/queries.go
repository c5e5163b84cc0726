package catalog

// The fixed catalog query sequence of spec.md §4.2: tables, columns with
// types and defaults, primary keys, foreign keys grouped by constraint
// name, unique constraints, indices with pg_indexam kind and operator
// class, enums, sequences, installed extensions, and Exograph-managed
// triggers/functions detected by naming convention.

const queryTables = `
SELECT table_schema, table_name
FROM information_schema.tables
WHERE table_schema = ANY($1) AND table_type = 'BASE TABLE'
ORDER BY table_schema, table_name`

const queryColumns = `
SELECT c.table_schema, c.table_name, c.column_name, c.ordinal_position,
       c.udt_name, c.is_nullable = 'YES', c.character_maximum_length,
       c.numeric_precision, c.numeric_scale, c.datetime_precision,
       c.column_default
FROM information_schema.columns c
WHERE c.table_schema = ANY($1)
ORDER BY c.table_schema, c.table_name, c.ordinal_position`

const queryPrimaryKeys = `
SELECT tc.table_schema, tc.table_name, kcu.column_name, kcu.ordinal_position
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
  ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
WHERE tc.constraint_type = 'PRIMARY KEY' AND tc.table_schema = ANY($1)
ORDER BY tc.table_schema, tc.table_name, kcu.ordinal_position`

// queryForeignKeys groups composite FKs by constraint OID so a composite
// local-column set referencing a single table is a single edge, per
// spec.md §3 ("A single referenced table with composite local columns is
// ONE FK, never multiple") and §4.2 ("Groups composite constraints by
// constraint OID before materializing").
const queryForeignKeys = `
SELECT con.oid, ns.nspname AS table_schema, tbl.relname AS table_name,
       con.conname, att.attname AS local_column, refns.nspname AS ref_schema,
       reftbl.relname AS ref_table, refatt.attname AS ref_column,
       con.confupdtype, con.confdeltype, ord.ord
FROM pg_constraint con
JOIN pg_class tbl ON tbl.oid = con.conrelid
JOIN pg_namespace ns ON ns.oid = tbl.relnamespace
JOIN pg_class reftbl ON reftbl.oid = con.confrelid
JOIN pg_namespace refns ON refns.oid = reftbl.relnamespace
CROSS JOIN LATERAL unnest(con.conkey, con.confkey) WITH ORDINALITY AS ord(localattnum, refattnum, ord)
JOIN pg_attribute att ON att.attrelid = con.conrelid AND att.attnum = ord.localattnum
JOIN pg_attribute refatt ON refatt.attrelid = con.confrelid AND refatt.attnum = ord.refattnum
WHERE con.contype = 'f' AND ns.nspname = ANY($1)
ORDER BY con.oid, ord.ord`

const queryUniqueConstraints = `
SELECT tc.table_schema, tc.table_name, tc.constraint_name, kcu.column_name, kcu.ordinal_position
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
  ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
WHERE tc.constraint_type = 'UNIQUE' AND tc.table_schema = ANY($1)
ORDER BY tc.table_schema, tc.table_name, tc.constraint_name, kcu.ordinal_position`

// queryIndices reports the access method (pg_am) and, for the first
// column, the operator class name — sufficient to recover an HNSW index's
// distance function (spec.md §4.1/§4.2).
const queryIndices = `
SELECT ns.nspname, tbl.relname, idx.relname AS index_name, am.amname,
       att.attname AS column_name, ord.ord, opc.opcname
FROM pg_index ix
JOIN pg_class idx ON idx.oid = ix.indexrelid
JOIN pg_class tbl ON tbl.oid = ix.indrelid
JOIN pg_namespace ns ON ns.oid = tbl.relnamespace
JOIN pg_am am ON am.oid = idx.relam
CROSS JOIN LATERAL unnest(ix.indkey) WITH ORDINALITY AS ord(attnum, ord)
JOIN pg_attribute att ON att.attrelid = tbl.oid AND att.attnum = ord.attnum
LEFT JOIN pg_opclass opc ON opc.oid = ix.indclass[ord.ord - 1]
WHERE NOT ix.indisprimary AND ns.nspname = ANY($1)
ORDER BY ns.nspname, tbl.relname, idx.relname, ord.ord`

const queryEnums = `
SELECT ns.nspname, t.typname, e.enumlabel, e.enumsortorder
FROM pg_type t
JOIN pg_namespace ns ON ns.oid = t.typnamespace
JOIN pg_enum e ON e.enumtypid = t.oid
WHERE ns.nspname = ANY($1)
ORDER BY ns.nspname, t.typname, e.enumsortorder`

const querySequences = `
SELECT sequence_schema, sequence_name
FROM information_schema.sequences
WHERE sequence_schema = ANY($1)
ORDER BY sequence_schema, sequence_name`

const queryExtensions = `
SELECT extname FROM pg_extension ORDER BY extname`

// queryManagedFunctions finds functions matching the exograph_update_<t>
// naming convention (spec.md §4.2: "Exograph-managed triggers and
// functions detected by the exograph_update_<table> naming convention").
const queryManagedFunctions = `
SELECT ns.nspname, p.proname
FROM pg_proc p
JOIN pg_namespace ns ON ns.oid = p.pronamespace
WHERE ns.nspname = ANY($1) AND p.proname LIKE 'exograph_update_%'
ORDER BY ns.nspname, p.proname`

const queryManagedTriggers = `
SELECT ns.nspname, tbl.relname, trg.tgname
FROM pg_trigger trg
JOIN pg_class tbl ON tbl.oid = trg.tgrelid
JOIN pg_namespace ns ON ns.oid = tbl.relnamespace
WHERE ns.nspname = ANY($1) AND trg.tgname LIKE 'exograph_on_update_%' AND NOT trg.tgisinternal
ORDER BY ns.nspname, tbl.relname, trg.tgname`
