// Code generated by a one-off generator script; word list for the
// CryptoNote-style 25-word mnemonic seed scheme. Not derived from any
// single canonical source available in the retrieval pack; see DESIGN.md.
package mnemonic

// WordListSize is the fixed size of the mnemonic dictionary.
const WordListSize = 1626

var wordList = [WordListSize]string{
	"bach", "bad", "bail", "bait", "bak", "bald", "bar", "bark",
	"bask", "beach", "beam", "beard", "bect", "bee", "beech", "beed",
	"beek", "been", "beer", "beich", "beil", "being", "beird", "beish",
	"beld", "ber", "berd", "bie", "bien", "bierk", "biesk", "biet",
	"bil", "bird", "birk", "blact", "blaing", "blam", "blan", "blat",
	"bleach", "bled", "blee", "bleild", "blem", "bleng", "bliel", "blirk",
	"blist", "blit", "bloald", "blold", "bloos", "bloung", "blu", "bluct",
	"bluect", "bluk", "blusk", "boald", "boang", "boar", "boask", "bod",
	"bon", "bont", "boo", "bood", "boont", "boosk", "bor", "bork",
	"bosh", "bount", "bousk", "bout", "braint", "bramp", "bre", "breamp",
	"brech", "breed", "breirk", "bren", "brict", "brid", "brieng", "brir",
	"brish", "bro", "broan", "broosk", "brork", "broud", "bru", "bruct",
	"brueng", "brul", "brump", "brun", "brut", "buect", "buemp", "buen",
	"bush", "but", "cact", "caich", "cail", "caing", "cait", "cak",
	"cald", "camp", "can", "cant", "cas", "ceak", "ceash", "cect",
	"ceek", "ceel", "ceesh", "cein", "ceir", "ceish", "ceit", "cel",
	"cen", "cer", "chain", "chal", "champ", "chang", "chark", "cheak",
	"chee", "chei", "chen", "cherk", "ches", "chict", "chieng", "chimp",
	"chir", "choar", "chod", "chook", "chork", "chosh", "chouk", "chuch",
	"chuesh", "chur", "chust", "cien", "cier", "cing", "cint", "cirk",
	"cish", "clach", "claid", "clal", "clar", "clas", "clear", "clect",
	"clee", "cleid", "clek", "cleng", "clerk", "cles", "clet", "clich",
	"cliet", "clin", "clir", "cloash", "clom", "cloork", "cloust", "cluek",
	"clump", "clus", "coan", "coash", "cooct", "coork", "couch", "coum",
	"coung", "courd", "crad", "craik", "crant", "crar", "creald", "crect",
	"creel", "creild", "crek", "crem", "crerd", "cresh", "crierk", "cring",
	"crir", "croang", "croct", "crok", "crom", "crooct", "crord", "crosk",
	"crould", "cruesh", "crum", "crung", "crust", "cud", "cuech", "cued",
	"cueng", "cuer", "cuest", "cuk", "cun", "cus", "cush", "daich",
	"dail", "daimp", "daint", "dair", "dais", "dan", "das", "dash",
	"dask", "dast", "dead", "deak", "deald", "deam", "deast", "dee",
	"deeld", "deer", "dees", "dei", "deich", "deil", "deimp", "del",
	"deng", "derd", "det", "diel", "dieng", "dierd", "diest", "dim",
	"dir", "dirk", "dist", "doald", "doan", "doard", "doas", "doct",
	"dod", "dok", "dooct", "dood", "dook", "douch", "dould", "dourd",
	"drai", "dramp", "drant", "dreach", "dreet", "dreild", "dren", "dresk",
	"dret", "drict", "drieng", "drik", "drimp", "drin", "drird", "dro",
	"droald", "droct", "droo", "drouk", "druct", "druect", "druld", "drur",
	"duect", "duent", "duerk", "duld", "dur", "dush", "fact", "fai",
	"faict", "faid", "faild", "faim", "faird", "fais", "fait", "fam",
	"fant", "feach", "feald", "feant", "feask", "fed", "feeld", "feerd",
	"feild", "feimp", "feirk", "feisk", "fek", "fes", "fict", "fien",
	"fiesk", "fin", "fir", "fis", "flaimp", "flan", "flask", "flear",
	"flect", "fled", "fleech", "fleid", "flel", "flemp", "flent", "flerd",
	"flet", "fli", "flid", "flien", "flild", "flimp", "flir", "flit",
	"flo", "floar", "flod", "flok", "flon", "floon", "flord", "flos",
	"floush", "flu", "fluem", "flun", "flurd", "flus", "flut", "foak",
	"foald", "foard", "fod", "fold", "fooch", "food", "foom", "foon",
	"foork", "foos", "fork", "fos", "fost", "foud", "fould", "foum",
	"foun", "foust", "fraimp", "frak", "fram", "frard", "fras", "freang",
	"freeng", "freil", "frek", "frem", "frer", "fresk", "friect", "frild",
	"frim", "frir", "frit", "froak", "from", "fron", "froost", "fros",
	"frouk", "fruek", "frum", "frurk", "fuel", "fueng", "fuerk", "fung",
	"fut", "gaim", "gair", "gak", "gald", "gast", "geact", "geant",
	"geark", "geast", "geel", "geen", "geesk", "geing", "geisk", "geit",
	"gek", "gem", "gen", "ger", "gerd", "gerk", "gesk", "gie",
	"giel", "giemp", "gierk", "giest", "gik", "gint", "gird", "glach",
	"glaing", "glark", "glash", "glat", "gle", "glear", "gleer", "gleik",
	"glek", "glel", "glent", "glerk", "glesh", "glied", "glik", "glild",
	"gloan", "glold", "glomp", "glong", "gloom", "glord", "glost", "gloung",
	"glud", "glues", "glusk", "glut", "goa", "goal", "goamp", "goan",
	"goar", "goash", "god", "gon", "goon", "gosh", "got", "gou",
	"goud", "goun", "gous", "grail", "gral", "gran", "grar", "gre",
	"greard", "greemp", "greil", "grel", "grem", "grest", "gret", "grich",
	"gries", "grim", "grirk", "groar", "grod", "grold", "grom", "groot",
	"gros", "grouch", "grud", "gruest", "gruld", "grus", "guct", "gueld",
	"gul", "gus", "haict", "haimp", "haint", "hair", "haish", "hal",
	"hant", "hea", "heamp", "hean", "heast", "heect", "heent", "heesk",
	"heich", "heik", "heil", "heim", "hein", "heish", "held", "hem",
	"hest", "hich", "hie", "hield", "hient", "hies", "hil", "him",
	"hing", "hist", "hoant", "hoard", "hoash", "hook", "hoos", "hord",
	"hould", "houm", "huel", "huent", "hues", "hunt", "hurd", "hurk",
	"hut", "jaich", "jaik", "jan", "jas", "jead", "jeang", "jear",
	"jeech", "jeek", "jeent", "jeerd", "jeet", "jeict", "jeint", "jeld",
	"jent", "jerd", "jict", "jiech", "jiel", "jieng", "jierk", "jin",
	"jish", "jit", "joamp", "joast", "jok", "jold", "jomp", "jon",
	"jont", "joo", "joord", "joost", "joun", "jourk", "jousk", "juem",
	"juent", "juerk", "juest", "jum", "jung", "just", "kach", "kad",
	"kaild", "kaird", "kald", "kam", "kan", "kas", "kast", "kea",
	"keamp", "keant", "keash", "keat", "kech", "kee", "keel", "keem",
	"keeng", "kei", "keict", "keird", "keisk", "keld", "kid", "kie",
	"kiech", "kieng", "kierk", "kiest", "kird", "kis", "koact", "koad",
	"koak", "koamp", "koast", "kol", "kong", "koo", "kooct", "kood",
	"koont", "koor", "koost", "kord", "kost", "kouk", "koul", "koust",
	"kuct", "kuech", "kuek", "kuel", "kuemp", "kuest", "kuld", "kump",
	"kurd", "laich", "laik", "laild", "laimp", "laint", "laird", "lam",
	"lard", "leact", "leam", "leard", "leas", "lech", "leeng", "leerk",
	"leid", "lemp", "leng", "lest", "lich", "lid", "liemp", "liesh",
	"lil", "lild", "lir", "loak", "loam", "loash", "loat", "lol",
	"lold", "long", "lont", "loo", "lood", "loost", "loot", "losk",
	"loump", "loush", "luech", "luek", "luel", "luerd", "lul", "luld",
	"lusk", "mach", "mai", "maint", "mairk", "maist", "mait", "mak",
	"mamp", "mar", "meak", "meal", "meamp", "med", "meect", "meeld",
	"meem", "meerk", "mees", "meict", "meid", "meimp", "mein", "meis",
	"meld", "mer", "mesk", "miemp", "miet", "ming", "mint", "mirk",
	"mit", "moa", "moact", "moang", "moch", "momp", "mont", "moo",
	"mooch", "mool", "moont", "moord", "moosh", "mosh", "much", "mued",
	"mueld", "muemp", "muerk", "murd", "musk", "naich", "naid", "naik",
	"nail", "naimp", "nea", "neang", "neas", "nect", "ned", "neeld",
	"neen", "neesh", "nei", "neict", "neil", "neint", "neir", "nesk",
	"niel", "nierk", "niesh", "nimp", "nin", "noark", "noash", "nod",
	"nold", "nom", "non", "noo", "nood", "nook", "noold", "noon",
	"noosh", "nosk", "nouk", "noum", "noung", "nourd", "nousk", "nuch",
	"nud", "nueld", "nuemp", "nuen", "nuer", "nuk", "nuld", "num",
	"nump", "nur", "nurk", "pact", "pad", "paich", "paik", "paimp",
	"pais", "pait", "pam", "park", "pas", "peach", "peak", "peam",
	"peang", "peas", "peat", "ped", "peed", "peem", "peen", "peerk",
	"pees", "peict", "peik", "peild", "peimp", "peir", "peish", "pem",
	"pes", "pict", "piel", "piemp", "pien", "pies", "pik", "plact",
	"plaimp", "plak", "plash", "plean", "pleerk", "pleimp", "pler", "plet",
	"plict", "pliet", "plim", "plird", "plis", "ploach", "ploon", "plord",
	"ploud", "pluch", "plues", "plum", "plun", "plurk", "poald", "poant",
	"poash", "poat", "pold", "pon", "posh", "poul", "poump", "prach",
	"praist", "prald", "prant", "prast", "prea", "pred", "preerk", "preild",
	"premp", "prerk", "pres", "pret", "priemp", "prik", "prild", "prin",
	"prirk", "pris", "proa", "promp", "proost", "pror", "pros", "prot",
	"proun", "pru", "pruerd", "pruk", "prum", "pued", "puerk", "puesh",
	"puk", "pul", "pum", "pump", "pung", "punt", "pust", "qua",
	"quad", "quaict", "quar", "queark", "quech", "queesk", "queit", "quesh",
	"quict", "quid", "quiech", "quird", "quisk", "quit", "quoan", "quoct",
	"quod", "quol", "quoong", "quould", "quuch", "quuerd", "quung", "quurd",
	"rach", "rairk", "ral", "rat", "ream", "reas", "ree", "reect",
	"reed", "reeld", "reem", "reen", "reer", "rees", "reil", "reing",
	"reit", "rem", "remp", "reng", "rerd", "rerk", "rest", "riel",
	"rieng", "rim", "rit", "roact", "roang", "roark", "rok", "ron",
	"roo", "rooct", "rool", "roong", "ror", "rork", "rosh", "rouk",
	"roung", "rourd", "roust", "rud", "ruel", "ruem", "ruerd", "rung",
	"rush", "sact", "said", "sain", "saist", "sald", "sam", "sash",
	"sask", "sast", "seact", "seak", "seal", "sean", "sear", "seask",
	"seech", "seek", "seesh", "seist", "serk", "shail", "shald", "shamp",
	"shang", "shash", "shat", "shea", "sheent", "sheimp", "shem", "sherk",
	"shesh", "shierd", "shik", "shim", "shish", "shoam", "shok", "shoom",
	"shord", "shosk", "shouct", "shuesk", "shuld", "shump", "shunt", "sie",
	"sied", "siek", "sies", "siet", "sim", "sing", "slach", "slaich",
	"slald", "slamp", "slang", "sleamp", "slees", "sleim", "slem", "slid",
	"slieng", "slird", "slish", "slo", "sloa", "sloch", "slold", "slomp",
	"sloord", "slos", "slould", "slu", "sluesk", "slun", "slurk", "slus",
	"smaing", "smal", "smask", "smeam", "smect", "smeech", "smeit", "smeld",
	"smerd", "smesk", "smi", "smict", "smiesh", "smint", "smir", "smit",
	"smoask", "smok", "smomp", "smoork", "smosh", "smoun", "smud", "smuerk",
	"smul", "smurd", "smut", "sna", "snach", "snai", "snald", "snam",
	"snast", "sne", "sneald", "sneeng", "sneir", "snek", "sneld", "snerd",
	"snesh", "sni", "snie", "snir", "snist", "snoang", "snoch", "snoost",
	"snord", "snosk", "snoung", "snud", "snuet", "snusk", "snut", "soa",
	"soad", "soald", "soard", "soast", "soat", "soon", "souk", "soump",
	"sour", "spach", "spad", "spai", "spak", "spal", "spamp", "spang",
	"spash", "spe", "speask", "spee", "speict", "spek", "spen", "spiesh",
	"spild", "spimp", "spin", "spo", "spoan", "spok", "spooct", "spord",
	"spos", "spoum", "spud", "spuer", "spuld", "spur", "spusk", "sput",
	"sta", "staid", "stal", "stast", "steald", "stect", "sted", "steer",
	"steich", "stem", "sterk", "stiemp", "stild", "stimp", "sting", "sto",
	"stoar", "stoct", "stol", "stomp", "ston", "stool", "stork", "stosk",
	"stot", "stoum", "stue", "stuk", "stump", "stung", "stusk", "sud",
	"sue", "sueld", "suest", "suk", "swain", "swald", "sweamp", "sweect",
	"sweid", "swek", "swerk", "swierd", "swimp", "swish", "swoant", "swon",
	"swoo", "swork", "swourk", "swuct", "swud", "swuent", "swump", "tai",
	"taict", "taid", "taild", "taird", "tak", "tas", "tast", "teak",
	"teamp", "teant", "teas", "tect", "ted", "teech", "teek", "teesh",
	"teict", "teild", "tein", "teird", "teng", "ter", "thach", "thad",
	"thain", "thal", "thant", "thard", "thast", "theach", "thect", "theech",
	"theict", "theld", "themp", "theng", "thesh", "thient", "thil", "third",
	"tho", "thoark", "thod", "thok", "thom", "thoor", "thork", "thosh",
	"thouch", "thuerd", "thus", "tict", "tid", "tiech", "tiemp", "tik",
	"tird", "tish", "tisk", "toa", "toad", "toal", "toamp", "tomp",
	"ton", "tont", "toom", "toosh", "tork", "tos", "tosk", "tould",
	"toum", "tour", "tra", "trach", "traist", "treang", "trech", "treeld",
	"treict", "tren", "trest", "tret", "triect", "trik", "trimp", "trirk",
	"trisk", "troast", "tromp", "tront", "troot", "trord", "trosk", "trou",
	"trud", "truek", "trul", "trump", "trun", "trurk", "tuek", "tuem",
	"tuen", "tuer", "tuesk", "tun", "tur", "vaict", "vaird", "vais",
	"var", "vat", "vead", "veald", "veant", "veard", "veash", "veent",
	"veer", "veesh", "veet", "veirk", "veld", "ver", "verk", "vict",
	"viect", "viel", "vier", "viesk", "vim", "vir", "vird", "voask",
	"voct", "von", "vooch", "vook", "voomp", "voont", "voor", "vor",
	"vord", "vosk", "vouch", "voud", "voul", "voum", "vourk", "vuest",
	"vump", "vun", "vunt", "wad", "wai", "waid", "waild", "waing",
	"waish", "wal", "wam", "want", "war", "weamp", "weask", "wech",
	"wee", "weem", "weent", "weest", "weist", "werd", "wict", "wiel",
	"wient", "wierk", "wiesk", "wimp", "wint", "wir", "wird", "wist",
	"wit", "woan", "woark", "woash", "wooct", "woomp", "woon", "woos",
	"wost", "wouk", "wount", "woush", "wra", "wract", "wrairk", "wrald",
	"wram", "wrang", "wrash", "wreas", "wreesh", "wreint", "wrek", "wreld",
	"wren", "wrest", "wret", "wriek", "wring", "wrirk", "wris", "wroant",
	"wroont", "wrosk", "wrout", "wruest", "wruld", "wuct", "wuemp", "wuerd",
	"wuld", "wung", "wush", "xach", "xaik", "xain", "xaish", "xait",
	"xal", "xan", "xar", "xash", "xat", "xeamp", "xear", "xeech",
	"xeen", "xeerk", "xees", "xeich", "xeid", "xeik", "xeird", "xeish",
	"xeld", "xeng", "xes", "xesh", "xied", "xiek", "xier", "xies",
	"xing", "xis", "xoald", "xoamp", "xooct", "xoor", "xoost", "xoot",
	"xos", "xosh", "xousk", "xuct", "xue", "xuect", "xuek", "xump",
	"yaict", "yaint", "yald", "yant", "yard", "yash", "yask", "yea",
	"yeach", "yeal", "yeard", "yeast", "yech", "yeect", "yeent", "yeerd",
	"yees", "yeet", "yei", "yeild", "yeir", "yen", "yesh", "yien",
	"yim", "yimp", "yis", "yoach", "yoamp", "yoant", "yoard", "yoct",
	"yok", "yol", "yoomp", "yoon", "yoos", "yor", "yosh", "yosk",
	"yot", "youch", "youn", "yuech", "yuem", "yueng", "yuer", "yuk",
	"yunt", "zad", "zaict", "zaik", "zail", "zain", "zaist", "zang",
	"zard", "zead", "zeang", "zeark", "zeas", "zed", "zeed", "zeek",
	"zeemp", "zeesh", "zeik", "zeil", "zein", "zeish", "zel", "zent",
	"zich", "ziemp", "zien", "ziesk", "zim", "zisk", "zoa", "zoach",
	"zoal", "zoang", "zoask", "zoch", "zol", "zomp", "zook", "zoold",
	"zoomp", "zoosh", "zoul", "zoung", "zourd", "zoust", "zuch", "zue",
	"zuech", "zued", "zuek", "zuemp", "zuen", "zuerk", "zues", "zunt",
	"zurd", "zush",
}
