package mcpserver

// CatalogFormatContract describes the season catalog document that the
// resolver reads.
const CatalogFormatContract = `# Hieroscope Catalog Format

The catalog is a single JSON (or YAML) document listing the small seasons
(sekki) of the year.

## Structure

` + "```" + `json
{
  "sekki": [
    {
      "id": "Risshun",
      "kanji": "立春",
      "notes": "Beginning of spring",
      "description": "Spring begins on the calendar; east winds start to melt the ice.",
      "startDate": "02-04"
    }
  ]
}
` + "```" + `

## Rules

1. ` + "`" + `sekki` + "`" + ` is required. A document without it is treated as unavailable and
   every lookup returns the empty season.
2. ` + "`" + `id` + "`" + ` and ` + "`" + `startDate` + "`" + ` are required on every entry.
3. ` + "`" + `startDate` + "`" + ` is ` + "`" + `MM-DD` + "`" + ` and recurs every year. ` + "`" + `02-29` + "`" + ` is accepted and falls
   on 1 March in non-leap years.
4. Entries failing rules 2-3 are skipped; the rest of the catalog still loads.
5. List entries in calendar order starting from January. The entry in effect
   is the last one whose start is on or before today; before the first start
   of the year, the last entry (December) is still in effect.
`
