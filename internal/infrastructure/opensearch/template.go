// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package opensearch

// searchRecordsSource pages through the inventory index with from/size
const searchRecordsSource = `{
  "from": {{ .From }},
  "size": {{ .Size }},
  "track_total_hits": true,
  "query": {
    "bool": {
      "filter": [
        {{- if eq .Deleted "DELETED_ONLY" }}
        {"term": {"deleted": true}}
        {{- else }}
        {"match_all": {}}
        {{- end }}
        {{- if .Type }},
        {"term": {"type": {{ .Type | quote }}}}
        {{- end }}
        {{- if .Owner }},
        {"term": {"owner": {{ .Owner | quote }}}}
        {{- end }}
        {{- if .Parent }},
        {"term": {"parentGlobalId": {{ .Parent | quote }}}}
        {{- end }}
      ]
      {{- if eq .Deleted "EXCLUDE" }},
      "must_not": [
        {"term": {"deleted": true}}
      ]
      {{- end }}
      {{- if .Query }},
      "minimum_should_match": 1,
      "should": [
        {
          "multi_match": {
            "query": {{ .Query | quote }},
            "type": "bool_prefix",
            "fields": ["name", "name._2gram", "name._3gram"]
          }
        },
        {"term": {"globalId": {{ .GlobalID | quote }}}}
      ]
      {{- end }}
    }
  },
  "sort": [
    { {{ .SortField | quote }}: {"order": {{ .SortOrder | quote }}} },
    {"globalId": "asc"}
  ]
}`

// recordLookupSource finds a single record by global id
const recordLookupSource = `{
  "size": 1,
  "query": {
    "term": {"globalId": {{ .GlobalID | quote }}}
  }
}`
