package export

// citationField maps one spreadsheet column to a citation-block field.
// Columns with an empty SubField read the field value directly (a string
// or list of strings); the rest project one sub-field out of each entry
// of a compound field.
type citationField struct {
	Column   string
	TypeName string
	SubField string
}

// citationFields drives the citation-block part of the spreadsheet. The
// declaration order is also the column order.
var citationFields = []citationField{
	{"DatasetTitle", "title", ""},
	{"CM_Subtitle", "subtitle", ""},
	{"CM_AltTitle", "alternativeTitle", ""},
	{"CM_AltURL", "alternativeURL", ""},
	{"CM_Agency", "otherId", "otherIdAgency"},
	{"CM_ID", "otherId", "otherIdValue"},
	{"CM_Author", "author", "authorName"},
	{"CM_AuthorAff", "author", "authorAffiliation"},
	{"CM_AuthorID", "author", "authorIdentifier"},
	{"CM_AuthorIDType", "author", "authorIdentifierScheme"},
	{"CM_ContactName", "datasetContact", "datasetContactName"},
	{"CM_ContactAff", "datasetContact", "datasetContactAffiliation"},
	{"CM_Descr", "dsDescription", "dsDescriptionValue"},
	{"CM_DescrDate", "dsDescription", "dsDescriptionDate"},
	{"CM_Subject", "subject", ""},
	{"CM_Keyword", "keyword", "keywordValue"},
	{"CM_KeywordVocab", "keyword", "keywordVocabulary"},
	{"CM_KeywordURI", "keyword", "keywordVocabularyURI"},
	{"CM_TopicTerm", "topicClassification", "topicClassValue"},
	{"CM_TopicVocab", "topicClassification", "topicClassVocab"},
	{"CM_TopicURL", "topicClassification", "topicClassVocabURI"},
	{"CM_PubCit", "publication", "publicationCitation"},
	{"CM_PubIDType", "publication", "publicationIDType"},
	{"CM_PubID", "publication", "publicationIDNumber"},
	{"CM_PubURL", "publication", "publicationURL"},
	{"CM_Notes", "notesText", ""},
	{"CM_Lang", "language", ""},
	{"CM_ProdName", "producer", "producerName"},
	{"CM_ProdAff", "producer", "producerAffiliation"},
	{"CM_ProdAbbrev", "producer", "producerAbbreviation"},
	{"CM_ProdURL", "producer", "producerURL"},
	{"CM_ProdLogo", "producer", "producerLogoURL"},
	{"CM_ProdDate", "productionDate", ""},
	{"CM_ProdLocation", "productionPlace", ""},
	{"CM_ContribName", "contributor", "contributorName"},
	{"CM_ContribType", "contributor", "contributorType"},
	{"CM_FundingAgency", "grantNumber", "grantNumberAgency"},
	{"CM_FundingID", "grantNumber", "grantNumberValue"},
	{"CM_DisName", "distributor", "distributorName"},
	{"CM_DisAff", "distributor", "distributorAffiliation"},
	{"CM_DisAbbrev", "distributor", "distributorAbbreviation"},
	{"CM_DisURL", "distributor", "distributorURL"},
	{"CM_DisLogoURL", "distributor", "distributorLogoURL"},
	{"CM_DisDate", "distributionDate", ""},
	{"CM_Depositor", "depositor", ""},
	{"CM_DepositDate", "dateOfDeposit", ""},
	{"CM_TimeStart", "timePeriodCovered", "timePeriodCoveredStart"},
	{"CM_TimeEnd", "timePeriodCovered", "timePeriodCoveredEnd"},
	{"CM_CollectionStart", "dateOfCollection", "dateOfCollectionStart"},
	{"CM_CollectionEnd", "dateOfCollection", "dateOfCollectionEnd"},
	{"CM_DataType", "kindOfData", ""},
	{"CM_SeriesName", "series", "seriesName"},
	{"CM_SeriesInfo", "series", "seriesInformation"},
	{"CM_SoftwareName", "software", "softwareName"},
	{"CM_SoftwareVers", "software", "softwareVersion"},
	{"CM_RelMaterial", "relatedMaterial", ""},
	{"CM_RelDatasets", "relatedDatasets", ""},
	{"CM_OtherRef", "otherReferences", ""},
	{"CM_DataSources", "dataSources", ""},
	{"CM_OriginSources", "originOfSources", ""},
	{"CM_CharSources", "characteristicOfSources", ""},
	{"CM_DocSources", "accessToSources", ""},
}

// subjectColumns maps per-subject boolean columns to the controlled
// vocabulary values of the citation subject field.
var subjectColumns = []struct {
	Column  string
	Subject string
}{
	{"CM_Subject_Agri", "Agricultural Sciences"},
	{"CM_Subject_AH", "Arts and Humanities"},
	{"CM_Subject_Astro", "Astronomy and Astrophysics"},
	{"CM_Subject_BM", "Business and Management"},
	{"CM_Subject_Chem", "Chemistry"},
	{"CM_Subject_Comp", "Computer and Information Science"},
	{"CM_Subject_EES", "Earth and Environmental Sciences"},
	{"CM_Subject_Eng", "Engineering"},
	{"CM_Subject_Law", "Law"},
	{"CM_Subject_Math", "Mathematical Sciences"},
	{"CM_Subject_Med", "Medicine, Health and Life Sciences"},
	{"CM_Subject_Phys", "Physics"},
	{"CM_Subject_SocSci", "Social Sciences"},
	{"CM_Subject_Other", "Other"},
}

// blockColumns maps metadata-block usage columns to block names.
var blockColumns = []struct {
	Column string
	Block  string
}{
	{"Meta_Geo", "geospatial"},
	{"Meta_SSHM", "socialscience"},
	{"Meta_Astro", "astrophysics"},
	{"Meta_LS", "biomedical"},
	{"Meta_Journal", "journal"},
	{"Meta_CWF", "computationalworkflow"},
}

// roleColumns maps per-role permission count columns to role aliases.
var roleColumns = []struct {
	Column string
	Alias  string
}{
	{"DS_Admin", "admin"},
	{"DS_Contrib", "contributor"},
	{"DS_ContribPlus", "fullContributor"},
	{"DS_Curator", "curator"},
	{"DS_FileDown", "fileDownloader"},
	{"DS_Member", "member"},
}
